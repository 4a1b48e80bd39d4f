package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockRegistry mocks the NameRegistry interface
type MockRegistry struct {
	mock.Mock
}

// Resolve mocks the Resolve method
func (m *MockRegistry) Resolve(ctx context.Context, name interfaces.Name) (common.Address, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(common.Address), args.Error(1)
}

// Register mocks the Register method
func (m *MockRegistry) Register(ctx context.Context, name interfaces.Name) (*types.Transaction, error) {
	args := m.Called(ctx, name)
	tx, _ := args.Get(0).(*types.Transaction)
	return tx, args.Error(1)
}

// WaitMined mocks the WaitMined method
func (m *MockRegistry) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	args := m.Called(ctx, tx)
	receipt, _ := args.Get(0).(*types.Receipt)
	return receipt, args.Error(1)
}

// MockRegistryFactory mocks the RegistryFactory interface
type MockRegistryFactory struct {
	mock.Mock
}

// RegistryFor mocks the RegistryFor method
func (m *MockRegistryFactory) RegistryFor(backend interfaces.Backend, auth *bind.TransactOpts) (interfaces.NameRegistry, error) {
	args := m.Called(backend, auth)
	registry, _ := args.Get(0).(interfaces.NameRegistry)
	return registry, args.Error(1)
}
