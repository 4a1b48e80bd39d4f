package registry

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ruteri/arc-name-service/bindings/arcns"
	"github.com/ruteri/arc-name-service/interfaces"
)

// ErrNoTransactOpts is returned when a transaction is attempted without first setting transaction options.
var ErrNoTransactOpts = errors.New("no authorized transactor available")

// OnchainNameRegistryClient implements the interfaces.NameRegistry interface for
// interacting with the name registry contract deployed on a blockchain.
type OnchainNameRegistryClient struct {
	contract *arcns.Arcns
	client   bind.ContractBackend
	backend  bind.DeployBackend
	auth     *bind.TransactOpts
}

// NewOnchainNameRegistryClient creates a new client for the registry contract
// at the specified address. It requires a ContractBackend for calls and
// transactions and a DeployBackend for waiting on receipts.
func NewOnchainNameRegistryClient(client bind.ContractBackend, backend bind.DeployBackend, address common.Address) (*OnchainNameRegistryClient, error) {
	contract, err := arcns.NewArcns(address, client)
	if err != nil {
		return nil, err
	}

	return &OnchainNameRegistryClient{
		contract: contract,
		client:   client,
		backend:  backend,
	}, nil
}

// SetTransactOpts sets the transaction options required for Register.
func (c *OnchainNameRegistryClient) SetTransactOpts(auth *bind.TransactOpts) {
	c.auth = auth
}

// Resolve returns the address registered for name. An unregistered name
// resolves to the zero address, not an error.
func (c *OnchainNameRegistryClient) Resolve(ctx context.Context, name interfaces.Name) (common.Address, error) {
	opts := &bind.CallOpts{Context: ctx}

	return c.contract.Resolve(opts, name.String())
}

// Register sends a register transaction for name.
// Returns the transaction and an error if the transaction could not be sent.
func (c *OnchainNameRegistryClient) Register(ctx context.Context, name interfaces.Name) (*types.Transaction, error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}

	opts := *c.auth
	opts.Context = ctx

	tx, err := c.contract.Register(&opts, name.String())
	return tx, err
}

// WaitMined waits for tx to be included and returns its receipt. The receipt
// status is not checked here.
func (c *OnchainNameRegistryClient) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.backend, tx)
}

// RegistryFactory creates NameRegistry clients for the configured contract address.
type RegistryFactory struct {
	address common.Address
}

// NewRegistryFactory creates a new factory for registry clients at address.
func NewRegistryFactory(address common.Address) *RegistryFactory {
	return &RegistryFactory{address: address}
}

// RegistryFor returns a NameRegistry using backend. Register is only
// available when auth is non-nil.
func (f *RegistryFactory) RegistryFor(backend interfaces.Backend, auth *bind.TransactOpts) (interfaces.NameRegistry, error) {
	client, err := NewOnchainNameRegistryClient(backend, backend, f.address)
	if err != nil {
		return nil, err
	}
	if auth != nil {
		client.SetTransactOpts(auth)
	}
	return client, nil
}
