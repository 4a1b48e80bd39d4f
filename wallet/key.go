package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ruteri/arc-name-service/interfaces"
)

// ErrNoAccounts is returned when a wallet has no account to grant.
var ErrNoAccounts = errors.New("wallet returned no accounts")

// KeyProvider grants capabilities backed by a raw private key.
type KeyProvider struct {
	key     *ecdsa.PrivateKey
	chainID *big.Int
	backend interfaces.Backend
}

// NewKeyProvider creates a provider signing with key for chainID and sending
// through backend.
func NewKeyProvider(key *ecdsa.PrivateKey, chainID *big.Int, backend interfaces.Backend) *KeyProvider {
	return &KeyProvider{key: key, chainID: chainID, backend: backend}
}

// Acquire returns a capability for the key's address.
func (p *KeyProvider) Acquire(ctx context.Context) (*interfaces.Capability, error) {
	if p.key == nil {
		return nil, ErrNoAccounts
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(p.key, p.chainID)
	if err != nil {
		return nil, err
	}

	return &interfaces.Capability{
		Account: auth.From,
		Auth:    auth,
		Backend: p.backend,
	}, nil
}

// PrivateKeyFromHex parses a hex private key, with or without the 0x prefix.
func PrivateKeyFromHex(hex string) (*ecdsa.PrivateKey, error) {
	hex = strings.TrimSpace(hex)
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	return crypto.HexToECDSA(hex)
}

// PrivateKeyFromFile reads a hex private key from file.
func PrivateKeyFromFile(file string) (*ecdsa.PrivateKey, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return PrivateKeyFromHex(string(content))
}
