package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/ruteri/arc-name-service/registry"
	"github.com/ruteri/arc-name-service/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testChainID  = big.NewInt(1337)
	testContract = common.HexToAddress("0x00000000000000000000000000000000000a4c00")
)

type gatewayFixture struct {
	gateway *Gateway
	factory *registry.MockRegistryFactory
	reader  *registry.MockRegistry
	writer  *registry.MockRegistry
	conn    *registry.MockBackend
	auth    *bind.TransactOpts
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := registry.NewMockBackend(testContract, testChainID)
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	auth, err := bind.NewKeyedTransactorWithChainID(key, testChainID)
	require.NoError(t, err)

	f := &gatewayFixture{
		factory: new(registry.MockRegistryFactory),
		reader:  new(registry.MockRegistry),
		writer:  new(registry.MockRegistry),
		conn:    conn,
		auth:    auth,
	}
	f.factory.On("RegistryFor", conn, (*bind.TransactOpts)(nil)).Return(f.reader, nil).Once()

	f.gateway, err = New(f.factory, conn, 0, logger)
	require.NoError(t, err)
	return f
}

func (f *gatewayFixture) capability() *interfaces.Capability {
	return &interfaces.Capability{Account: f.auth.From, Auth: f.auth, Backend: f.conn}
}

func testTx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: nonce, GasPrice: big.NewInt(1), Gas: 21000})
}

func TestRegister_Success(t *testing.T) {
	f := newGatewayFixture(t)
	tx := testTx(0)

	f.factory.On("RegistryFor", f.conn, f.auth).Return(f.writer, nil)
	f.writer.On("Register", mock.Anything, interfaces.Name("sercan.arc")).Return(tx, nil)
	f.writer.On("WaitMined", mock.Anything, tx).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash(), BlockNumber: big.NewInt(7)}, nil)

	receipt, err := f.gateway.Register(context.Background(), f.capability(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), receipt.TxHash)

	f.factory.AssertExpectations(t)
	f.writer.AssertExpectations(t)
}

func TestRegister_NoCapability(t *testing.T) {
	f := newGatewayFixture(t)

	_, err := f.gateway.Register(context.Background(), nil, "sercan.arc")
	assert.ErrorIs(t, err, interfaces.ErrCapabilityUnavailable)

	_, err = f.gateway.Register(context.Background(), &interfaces.Capability{}, "sercan.arc")
	assert.ErrorIs(t, err, interfaces.ErrCapabilityUnavailable)

	f.writer.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_FallsBackToReadConnection(t *testing.T) {
	f := newGatewayFixture(t)
	tx := testTx(1)

	f.factory.On("RegistryFor", f.conn, f.auth).Return(f.writer, nil)
	f.writer.On("Register", mock.Anything, interfaces.Name("sercan.arc")).Return(tx, nil)
	f.writer.On("WaitMined", mock.Anything, tx).Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}, nil)

	capability := &interfaces.Capability{Account: f.auth.From, Auth: f.auth}
	_, err := f.gateway.Register(context.Background(), capability, "sercan.arc")
	require.NoError(t, err)
	f.factory.AssertExpectations(t)
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name     string
		sendErr  error
		waitErr  error
		status   uint64
		wantKind interfaces.GatewayErrorKind
		wantMsg  string
		exact    bool
	}{
		{
			name:     "signer rejected",
			sendErr:  errors.New("user denied transaction signature"),
			wantKind: interfaces.KindRejected,
			wantMsg:  "user denied transaction signature",
		},
		{
			name:     "clef declined",
			sendErr:  errors.New("Request denied"),
			wantKind: interfaces.KindRejected,
			wantMsg:  "Request denied",
			exact:    true,
		},
		{
			name:     "node rejected transaction",
			sendErr:  errors.New("transaction rejected: nonce too low"),
			wantKind: interfaces.KindCall,
			wantMsg:  "transaction rejected: nonce too low",
			exact:    true,
		},
		{
			name:     "not authorized",
			sendErr:  bind.ErrNotAuthorized,
			wantKind: interfaces.KindRejected,
			wantMsg:  bind.ErrNotAuthorized.Error(),
		},
		{
			name:     "estimation reverted",
			sendErr:  errors.New("execution reverted: name already registered"),
			wantKind: interfaces.KindReverted,
			wantMsg:  "execution reverted: name already registered",
		},
		{
			name:     "network failure",
			sendErr:  errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"),
			wantKind: interfaces.KindCall,
			wantMsg:  "dial tcp 127.0.0.1:8545: connect: connection refused",
		},
		{
			name:     "wait failed",
			waitErr:  errors.New("boom"),
			wantKind: interfaces.KindCall,
			wantMsg:  "boom",
			exact:    true,
		},
		{
			name:     "wait timed out",
			waitErr:  context.DeadlineExceeded,
			wantKind: interfaces.KindCall,
			wantMsg:  "context deadline exceeded",
			exact:    true,
		},
		{
			name:     "mined but reverted",
			status:   types.ReceiptStatusFailed,
			wantKind: interfaces.KindReverted,
			wantMsg:  "reverted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGatewayFixture(t)
			tx := testTx(2)

			f.factory.On("RegistryFor", f.conn, f.auth).Return(f.writer, nil)
			if tt.sendErr != nil {
				f.writer.On("Register", mock.Anything, interfaces.Name("sercan.arc")).Return(nil, tt.sendErr)
			} else {
				f.writer.On("Register", mock.Anything, interfaces.Name("sercan.arc")).Return(tx, nil)
				if tt.waitErr != nil {
					f.writer.On("WaitMined", mock.Anything, tx).Return(nil, tt.waitErr)
				} else {
					f.writer.On("WaitMined", mock.Anything, tx).Return(&types.Receipt{Status: tt.status, TxHash: tx.Hash()}, nil)
				}
			}

			_, err := f.gateway.Register(context.Background(), f.capability(), "sercan.arc")
			require.Error(t, err)

			gerr, ok := interfaces.IsGatewayError(err)
			require.True(t, ok, "expected a GatewayError, got %T", err)
			assert.Equal(t, tt.wantKind, gerr.Kind)
			if tt.exact {
				assert.Equal(t, tt.wantMsg, err.Error())
			} else {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	f := newGatewayFixture(t)
	owner := common.HexToAddress("0xABCD000000000000000000000000000000000001")

	f.reader.On("Resolve", mock.Anything, interfaces.Name("sercan.arc")).Return(owner, nil)
	f.reader.On("Resolve", mock.Anything, interfaces.Name("nobody.arc")).Return(interfaces.ZeroAddress, nil)
	f.reader.On("Resolve", mock.Anything, interfaces.Name("broken.arc")).Return(common.Address{}, errors.New("unexpected EOF"))

	addr, err := f.gateway.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, owner, addr)

	addr, err = f.gateway.Resolve(context.Background(), "nobody.arc")
	require.NoError(t, err)
	assert.Equal(t, interfaces.ZeroAddress, addr)

	_, err = f.gateway.Resolve(context.Background(), "broken.arc")
	gerr, ok := interfaces.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.KindCall, gerr.Kind)
	assert.Equal(t, "unexpected EOF", err.Error())
}

// TestGateway_EndToEnd runs the gateway over the real binding, a real signer
// and the in-process ledger.
func TestGateway_EndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := registry.NewMockBackend(testContract, testChainID)
	require.NoError(t, err)

	gw, err := New(registry.NewRegistryFactory(testContract), conn, 0, logger)
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	capability, err := wallet.NewKeyProvider(key, testChainID, conn).Acquire(context.Background())
	require.NoError(t, err)

	addr, err := gw.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, interfaces.ZeroAddress, addr)

	receipt, err := gw.Register(context.Background(), capability, "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	addr, err = gw.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, capability.Account, addr)

	// A second account cannot take the name
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := wallet.NewKeyProvider(otherKey, testChainID, conn).Acquire(context.Background())
	require.NoError(t, err)

	_, err = gw.Register(context.Background(), other, "sercan.arc")
	gerr, ok := interfaces.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, interfaces.KindReverted, gerr.Kind)
}
