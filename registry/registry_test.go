package registry

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/arc-name-service/bindings/arcns"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testChainID  = big.NewInt(1337)
	testContract = common.HexToAddress("0x00000000000000000000000000000000000a4c00")
)

// TestRegistryContract_Resolve tests read-only resolution through the binding
func TestRegistryContract_Resolve(t *testing.T) {
	backend, _, _, err := SetupTestChain()
	require.NoError(t, err)

	regClient, err := NewOnchainNameRegistryClient(backend, backend, testContract)
	require.NoError(t, err)

	// Unregistered names resolve to the zero address
	addr, err := regClient.Resolve(context.Background(), "nobody.arc")
	require.NoError(t, err)
	assert.Equal(t, interfaces.ZeroAddress, addr)

	owner := common.HexToAddress("0xABCD000000000000000000000000000000000001")
	backend.SetOwner("sercan.arc", owner)

	addr, err = regClient.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, owner, addr)
}

// TestRegistryContract_Register tests the register transaction round trip
func TestRegistryContract_Register(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)

	regClient, err := NewOnchainNameRegistryClient(backend, backend, testContract)
	require.NoError(t, err)

	// Without transact opts the client refuses to send
	_, err = regClient.Register(context.Background(), "sercan.arc")
	assert.ErrorIs(t, err, ErrNoTransactOpts)

	regClient.SetTransactOpts(auth)

	tx, err := regClient.Register(context.Background(), "sercan.arc")
	require.NoError(t, err)
	require.NotNil(t, tx)

	// Verify the transaction carries the ABI-encoded register call
	parsed, err := arcns.ParsedABI()
	require.NoError(t, err)
	expectedData, err := parsed.Pack("register", "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, expectedData, tx.Data())
	assert.Equal(t, testContract, *tx.To())

	receipt, err := regClient.WaitMined(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	addr, err := regClient.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, auth.From, addr)

	assert.Len(t, backend.SentTransactions(), 1)
}

// TestRegistryContract_RegisterTaken tests that a name held by another account fails on chain
func TestRegistryContract_RegisterTaken(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)

	other := common.HexToAddress("0x0000000000000000000000000000000000000042")
	backend.SetOwner("sercan.arc", other)

	regClient, err := NewOnchainNameRegistryClient(backend, backend, testContract)
	require.NoError(t, err)
	regClient.SetTransactOpts(auth)

	tx, err := regClient.Register(context.Background(), "sercan.arc")
	require.NoError(t, err)

	receipt, err := regClient.WaitMined(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)

	addr, err := regClient.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, other, addr, "failed registration must not change the owner")
}

// TestRegistryContract_Errors tests that backend failures reach the caller
func TestRegistryContract_Errors(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)

	regClient, err := NewOnchainNameRegistryClient(backend, backend, testContract)
	require.NoError(t, err)
	regClient.SetTransactOpts(auth)

	backend.CallErr = errors.New("connection refused")
	_, err = regClient.Resolve(context.Background(), "sercan.arc")
	assert.ErrorContains(t, err, "connection refused")

	backend.SendErr = errors.New("insufficient funds for gas * price + value")
	_, err = regClient.Register(context.Background(), "sercan.arc")
	assert.ErrorContains(t, err, "insufficient funds")
	assert.Empty(t, backend.SentTransactions())
}

// TestRegistryFactory tests that factory clients are read-only unless given a signer
func TestRegistryFactory(t *testing.T) {
	backend, auth, _, err := SetupTestChain()
	require.NoError(t, err)

	factory := NewRegistryFactory(testContract)

	reader, err := factory.RegistryFor(backend, nil)
	require.NoError(t, err)
	_, err = reader.Register(context.Background(), "sercan.arc")
	assert.ErrorIs(t, err, ErrNoTransactOpts)

	writer, err := factory.RegistryFor(backend, auth)
	require.NoError(t, err)
	tx, err := writer.Register(context.Background(), "sercan.arc")
	require.NoError(t, err)
	_, err = writer.WaitMined(context.Background(), tx)
	require.NoError(t, err)

	addr, err := reader.Resolve(context.Background(), "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, auth.From, addr)
}

// TestMockRegistryClient tests the in-memory registry used by higher level tests
func TestMockRegistryClient(t *testing.T) {
	mockRegistry := NewMockRegistryClient()
	ctx := context.Background()

	alice := &bind.TransactOpts{From: common.HexToAddress("0x00000000000000000000000000000000000a11ce")}
	bob := &bind.TransactOpts{From: common.HexToAddress("0x0000000000000000000000000000000000000b0b")}

	reader, err := mockRegistry.RegistryFor(nil, nil)
	require.NoError(t, err)
	_, err = reader.Register(ctx, "alice.arc")
	assert.ErrorIs(t, err, ErrNoTransactOpts)

	aliceView, err := mockRegistry.RegistryFor(nil, alice)
	require.NoError(t, err)
	tx, err := aliceView.Register(ctx, "alice.arc")
	require.NoError(t, err)
	receipt, err := aliceView.WaitMined(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	addr, err := reader.Resolve(ctx, "alice.arc")
	require.NoError(t, err)
	assert.Equal(t, alice.From, addr)

	// Bob cannot take alice's name
	bobView, err := mockRegistry.RegistryFor(nil, bob)
	require.NoError(t, err)
	tx, err = bobView.Register(ctx, "alice.arc")
	require.NoError(t, err)
	receipt, err = bobView.WaitMined(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, alice.From, mockRegistry.Owner("alice.arc"))
}

// SetupTestChain creates an in-process ledger with the registry deployed at
// testContract. It returns:
// - The backend, usable as both ContractBackend and DeployBackend
// - The transaction auth for a freshly generated account
// - The private key for that account
func SetupTestChain() (*MockBackend, *bind.TransactOpts, *ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, nil, nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, testChainID)
	if err != nil {
		return nil, nil, nil, err
	}

	backend, err := NewMockBackend(testContract, testChainID)
	if err != nil {
		return nil, nil, nil, err
	}

	return backend, auth, privateKey, nil
}
