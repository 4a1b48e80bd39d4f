package wallet

import (
	"context"

	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockProvider mocks the CapabilityProvider interface
type MockProvider struct {
	mock.Mock
}

// Acquire mocks the Acquire method
func (m *MockProvider) Acquire(ctx context.Context) (*interfaces.Capability, error) {
	args := m.Called(ctx)
	capability, _ := args.Get(0).(*interfaces.Capability)
	return capability, args.Error(1)
}
