package gateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockGateway mocks the LedgerGateway interface
type MockGateway struct {
	mock.Mock
}

// Register mocks the Register method
func (m *MockGateway) Register(ctx context.Context, capability *interfaces.Capability, name interfaces.Name) (*types.Receipt, error) {
	args := m.Called(ctx, capability, name)
	receipt, _ := args.Get(0).(*types.Receipt)
	return receipt, args.Error(1)
}

// Resolve mocks the Resolve method
func (m *MockGateway) Resolve(ctx context.Context, name interfaces.Name) (common.Address, error) {
	args := m.Called(ctx, name)
	addr, _ := args.Get(0).(common.Address)
	return addr, args.Error(1)
}
