// Package gateway sends registration requests and resolution queries to the
// name registry contract and normalizes every remote failure into an
// interfaces.GatewayError.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ruteri/arc-name-service/interfaces"
)

const (
	opRegister = "register"
	opResolve  = "resolve"
)

// Gateway is the LedgerGateway. Resolve goes through the read-only connection
// opened at startup; Register goes through whatever connection the wallet
// capability brings, falling back to the same one.
type Gateway struct {
	factory        interfaces.RegistryFactory
	conn           interfaces.Backend
	reader         interfaces.NameRegistry
	confirmTimeout time.Duration
	log            *slog.Logger
}

// New creates a gateway. conn is the read-only connection to the configured
// RPC endpoint. A zero confirmTimeout waits for inclusion indefinitely.
func New(factory interfaces.RegistryFactory, conn interfaces.Backend, confirmTimeout time.Duration, log *slog.Logger) (*Gateway, error) {
	reader, err := factory.RegistryFor(conn, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create registry reader: %w", err)
	}

	return &Gateway{
		factory:        factory,
		conn:           conn,
		reader:         reader,
		confirmTimeout: confirmTimeout,
		log:            log,
	}, nil
}

// Register asks the capability's signer to send register(name) and waits for
// the transaction to be included. A mined transaction with a failed status
// is reported as a reverted GatewayError.
func (g *Gateway) Register(ctx context.Context, capability *interfaces.Capability, name interfaces.Name) (*types.Receipt, error) {
	if capability == nil || capability.Auth == nil {
		return nil, interfaces.ErrCapabilityUnavailable
	}

	backend := capability.Backend
	if backend == nil {
		backend = g.conn
	}

	client, err := g.factory.RegistryFor(backend, capability.Auth)
	if err != nil {
		return nil, interfaces.NewGatewayError(opRegister, interfaces.KindCall, err)
	}

	tx, err := client.Register(ctx, name)
	if err != nil {
		return nil, interfaces.NewGatewayError(opRegister, classify(err), err)
	}

	g.log.Info("Registration transaction sent", "name", name, "account", capability.Account.Hex(), "txHash", tx.Hash().Hex())

	waitCtx := ctx
	if g.confirmTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, g.confirmTimeout)
		defer cancel()
	}

	receipt, err := client.WaitMined(waitCtx, tx)
	if err != nil {
		g.log.Warn("Waiting for registration transaction failed", "name", name, "txHash", tx.Hash().Hex(), "err", err)
		return nil, interfaces.NewGatewayError(opRegister, interfaces.KindCall, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, interfaces.NewGatewayError(opRegister, interfaces.KindReverted, fmt.Errorf("transaction %s reverted", tx.Hash().Hex()))
	}

	g.log.Debug("Registration transaction mined", "name", name, "txHash", tx.Hash().Hex(), "block", receipt.BlockNumber)
	return receipt, nil
}

// Resolve returns the raw address bound to name. The zero address is passed
// through untouched; interpreting it is the caller's business.
func (g *Gateway) Resolve(ctx context.Context, name interfaces.Name) (common.Address, error) {
	addr, err := g.reader.Resolve(ctx, name)
	if err != nil {
		return common.Address{}, interfaces.NewGatewayError(opResolve, classify(err), err)
	}
	return addr, nil
}

// signerRefusals are the messages signers answer with when their operator
// declines a request.
var signerRefusals = []string{
	"request denied",
	"user denied",
	"user rejected",
}

func classify(err error) interfaces.GatewayErrorKind {
	if errors.Is(err, bind.ErrNotAuthorized) {
		return interfaces.KindRejected
	}

	msg := strings.ToLower(err.Error())
	for _, refusal := range signerRefusals {
		if strings.Contains(msg, refusal) {
			return interfaces.KindRejected
		}
	}
	if strings.Contains(msg, "execution reverted") {
		return interfaces.KindReverted
	}
	return interfaces.KindCall
}
