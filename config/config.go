// Package config holds the process-wide settings resolved once at startup.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/arc-name-service/interfaces"
)

var (
	ErrMissingContract = errors.New("registry contract address is required")
	ErrMissingRPC      = errors.New("RPC endpoint is required")
)

// Config is immutable after Load returns.
type Config struct {
	// ContractAddress is the name registry contract.
	ContractAddress common.Address

	// RPCEndpoint is the node URL used for read-only calls and, unless a
	// wallet brings its own connection, for sending transactions.
	RPCEndpoint string

	// ChainID signs transactions. Zero means "ask the node".
	ChainID int64

	// ConfirmTimeout bounds how long a registration waits for inclusion.
	// Zero means wait indefinitely.
	ConfirmTimeout time.Duration
}

// Load validates the raw settings and builds a Config.
func Load(contractAddress, rpcEndpoint string, chainID int64, confirmTimeout time.Duration) (*Config, error) {
	if contractAddress == "" {
		return nil, ErrMissingContract
	}
	addr, err := interfaces.ParseAddress(contractAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid registry contract address: %w", err)
	}
	if addr == interfaces.ZeroAddress {
		return nil, errors.New("invalid registry contract address: zero address")
	}

	if rpcEndpoint == "" {
		return nil, ErrMissingRPC
	}
	u, err := url.Parse(rpcEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid RPC endpoint: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		if u.Scheme != "" || u.Path == "" {
			return nil, fmt.Errorf("invalid RPC endpoint %q: unsupported scheme", rpcEndpoint)
		}
		// a bare path is an IPC socket
	}

	if chainID < 0 {
		return nil, fmt.Errorf("invalid chain id %d", chainID)
	}
	if confirmTimeout < 0 {
		return nil, fmt.Errorf("invalid confirmation timeout %s", confirmTimeout)
	}

	return &Config{
		ContractAddress: addr,
		RPCEndpoint:     rpcEndpoint,
		ChainID:         chainID,
		ConfirmTimeout:  confirmTimeout,
	}, nil
}
