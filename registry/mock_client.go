package registry

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ruteri/arc-name-service/interfaces"
)

// MockRegistryClient provides a simple in-memory implementation of the name
// registry for testing purposes without requiring a blockchain connection.
// It doubles as an interfaces.RegistryFactory: every client it hands out
// shares the same state and registers names to the signer's address.
//
// A name already held by a different address cannot be registered again;
// such transactions are "mined" with a failed receipt status, the way a
// reverting contract call would be.
type MockRegistryClient struct {
	mutex    sync.RWMutex
	owners   map[interfaces.Name]common.Address
	receipts map[common.Hash]*types.Receipt
	nonce    uint64
}

// NewMockRegistryClient creates a new mock registry with no names registered.
func NewMockRegistryClient() *MockRegistryClient {
	return &MockRegistryClient{
		owners:   make(map[interfaces.Name]common.Address),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

// RegistryFor returns a view of the mock registry. Register is only allowed
// when auth is non-nil, mirroring OnchainNameRegistryClient.
func (m *MockRegistryClient) RegistryFor(_ interfaces.Backend, auth *bind.TransactOpts) (interfaces.NameRegistry, error) {
	return &mockRegistryView{registry: m, auth: auth}, nil
}

// SetOwner binds name to owner directly, bypassing transactions.
// This method is specific to the mock implementation.
func (m *MockRegistryClient) SetOwner(name interfaces.Name, owner common.Address) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.owners[name] = owner
}

// Owner returns the address holding name, or the zero address.
func (m *MockRegistryClient) Owner(name interfaces.Name) common.Address {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.owners[name]
}

func (m *MockRegistryClient) register(from common.Address, name interfaces.Name) *types.Transaction {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    m.nonce,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Data:     []byte(name),
	})

	status := types.ReceiptStatusSuccessful
	if owner, taken := m.owners[name]; taken && owner != from {
		status = types.ReceiptStatusFailed
	} else {
		m.owners[name] = from
	}

	m.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(m.nonce + 1),
		GasUsed:     21000,
	}
	m.nonce++

	return tx
}

func (m *MockRegistryClient) receipt(hash common.Hash) (*types.Receipt, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	receipt, exists := m.receipts[hash]
	if !exists {
		return nil, errors.New("transaction not found")
	}
	return receipt, nil
}

type mockRegistryView struct {
	registry *MockRegistryClient
	auth     *bind.TransactOpts
}

func (v *mockRegistryView) Resolve(ctx context.Context, name interfaces.Name) (common.Address, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}
	return v.registry.Owner(name), nil
}

func (v *mockRegistryView) Register(ctx context.Context, name interfaces.Name) (*types.Transaction, error) {
	if v.auth == nil {
		return nil, ErrNoTransactOpts
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.registry.register(v.auth.From, name), nil
}

func (v *mockRegistryView) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.registry.receipt(tx.Hash())
}
