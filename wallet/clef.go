package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/arc-name-service/interfaces"
)

// ClefProvider grants capabilities through an external Clef signer. Clef asks
// its operator to approve both the account listing and every signature.
type ClefProvider struct {
	endpoint string
	account  common.Address
	backend  interfaces.Backend

	mu     sync.Mutex
	signer *external.ExternalSigner
}

// NewClefProvider creates a provider talking to the Clef instance at
// endpoint. A zero account selects the first account Clef exposes.
func NewClefProvider(endpoint string, account common.Address, backend interfaces.Backend) *ClefProvider {
	return &ClefProvider{endpoint: endpoint, account: account, backend: backend}
}

// Acquire requests the account list from Clef and picks the configured
// account. The connection is opened on first use and kept for the provider's
// lifetime.
func (p *ClefProvider) Acquire(ctx context.Context) (*interfaces.Capability, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signer, err := p.connect()
	if err != nil {
		return nil, err
	}

	account, err := selectAccount(signer.Accounts(), p.account)
	if err != nil {
		return nil, err
	}

	auth := bind.NewClefTransactor(signer, account)

	return &interfaces.Capability{
		Account: account.Address,
		Auth:    auth,
		Backend: p.backend,
	}, nil
}

func (p *ClefProvider) connect() (*external.ExternalSigner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.signer != nil {
		return p.signer, nil
	}

	signer, err := external.NewExternalSigner(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("could not connect to external signer: %w", err)
	}
	p.signer = signer
	return signer, nil
}

func selectAccount(available []accounts.Account, want common.Address) (accounts.Account, error) {
	if len(available) == 0 {
		return accounts.Account{}, ErrNoAccounts
	}
	if want == (common.Address{}) {
		return available[0], nil
	}
	for _, account := range available {
		if account.Address == want {
			return account, nil
		}
	}
	return accounts.Account{}, fmt.Errorf("account %s not available in wallet", want.Hex())
}
