package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// NameRegistry is the client view of the on-chain name registry contract.
type NameRegistry interface {
	// Resolve returns the address bound to name, or ZeroAddress.
	Resolve(ctx context.Context, name Name) (common.Address, error)

	// Register sends a register(name) transaction. Requires transact opts.
	Register(ctx context.Context, name Name) (*types.Transaction, error)

	// WaitMined blocks until tx is included and returns its receipt.
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// RegistryFactory creates NameRegistry clients bound to the configured contract.
type RegistryFactory interface {
	// RegistryFor returns a client using backend for calls and receipts.
	// A nil auth yields a read-only client.
	RegistryFor(backend Backend, auth *bind.TransactOpts) (NameRegistry, error)
}

// Backend is a connection able to call contracts, send transactions and
// fetch receipts. Both ethclient.Client and the simulated client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Capability is a session granted by a wallet: the approved account, a signer
// for it, and the connection transactions are sent through.
type Capability struct {
	Account common.Address
	Auth    *bind.TransactOpts
	Backend Backend
}

// CapabilityProvider is a wallet that can grant signing capabilities.
type CapabilityProvider interface {
	// Acquire requests account access and produces a signer. It may block on
	// user interaction (password prompt, external signer approval).
	Acquire(ctx context.Context) (*Capability, error)
}
