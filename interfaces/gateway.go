package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// LedgerGateway performs the two remote operations of the name service.
type LedgerGateway interface {
	// Register sends register(name) signed by capability and waits for the
	// transaction to be included.
	Register(ctx context.Context, capability *Capability, name Name) (*types.Receipt, error)

	// Resolve calls resolve(name) over the read-only connection.
	Resolve(ctx context.Context, name Name) (common.Address, error)
}
