package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ruteri/arc-name-service/bindings/arcns"
)

// ErrExecutionReverted is returned by MockBackend for calls it cannot execute.
var ErrExecutionReverted = errors.New("execution reverted")

// MockBackend is an in-process ledger that executes the name registry ABI
// for a single contract address. It satisfies interfaces.Backend so the real
// binding, client and signers can be exercised without a node.
//
// Sent transactions are mined immediately. Registering a name held by a
// different sender yields a failed receipt.
type MockBackend struct {
	mutex    sync.Mutex
	abi      *abi.ABI
	contract common.Address
	chainID  *big.Int

	owners   map[string]common.Address
	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	sent     []*types.Transaction
	block    uint64

	// SendErr, when set, is returned by SendTransaction.
	SendErr error
	// CallErr, when set, is returned by CallContract.
	CallErr error
}

// NewMockBackend creates a backend with the registry deployed at contract.
func NewMockBackend(contract common.Address, chainID *big.Int) (*MockBackend, error) {
	parsed, err := arcns.ParsedABI()
	if err != nil {
		return nil, err
	}

	return &MockBackend{
		abi:      parsed,
		contract: contract,
		chainID:  chainID,
		owners:   make(map[string]common.Address),
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
		block:    1,
	}, nil
}

// SetOwner binds name to owner directly.
func (b *MockBackend) SetOwner(name string, owner common.Address) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.owners[name] = owner
}

// SentTransactions returns every transaction accepted so far.
func (b *MockBackend) SentTransactions() []*types.Transaction {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return append([]*types.Transaction(nil), b.sent...)
}

func (b *MockBackend) decode(data []byte) (*abi.Method, string, error) {
	if len(data) < 4 {
		return nil, "", ErrExecutionReverted
	}
	method, err := b.abi.MethodById(data[:4])
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExecutionReverted, err)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil || len(args) != 1 {
		return nil, "", fmt.Errorf("%w: malformed arguments", ErrExecutionReverted)
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, "", fmt.Errorf("%w: malformed arguments", ErrExecutionReverted)
	}
	return method, name, nil
}

// CodeAt returns non-empty code for the registry contract only.
func (b *MockBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if contract == b.contract {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

// CallContract executes resolve against the in-memory registry.
func (b *MockBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if b.CallErr != nil {
		return nil, b.CallErr
	}
	if call.To == nil || *call.To != b.contract {
		return nil, nil
	}

	method, name, err := b.decode(call.Data)
	if err != nil {
		return nil, err
	}
	if method.Name != "resolve" {
		return nil, nil
	}

	b.mutex.Lock()
	owner := b.owners[name]
	b.mutex.Unlock()

	return method.Outputs.Pack(owner)
}

func (b *MockBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return &types.Header{
		Number:  new(big.Int).SetUint64(b.block),
		BaseFee: big.NewInt(1_000_000_000),
	}, nil
}

func (b *MockBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.CodeAt(ctx, account, nil)
}

func (b *MockBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.nonces[account], nil
}

func (b *MockBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *MockBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *MockBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

// SendTransaction recovers the sender, executes register and mines the
// transaction into its own block.
func (b *MockBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.SendErr != nil {
		return b.SendErr
	}

	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if tx.Nonce() != b.nonces[from] {
		return fmt.Errorf("invalid nonce: have %d, want %d", tx.Nonce(), b.nonces[from])
	}
	b.nonces[from]++
	b.block++

	status := types.ReceiptStatusSuccessful
	if tx.To() == nil || *tx.To() != b.contract {
		status = types.ReceiptStatusFailed
	} else if method, name, err := b.decode(tx.Data()); err != nil || method.Name != "register" {
		status = types.ReceiptStatusFailed
	} else if owner, taken := b.owners[name]; taken && owner != from {
		status = types.ReceiptStatusFailed
	} else {
		b.owners[name] = from
	}

	b.sent = append(b.sent, tx)
	b.receipts[tx.Hash()] = &types.Receipt{
		Type:        tx.Type(),
		Status:      status,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas(),
		BlockNumber: new(big.Int).SetUint64(b.block),
	}
	return nil
}

// TransactionReceipt returns ethereum.NotFound for unknown transactions.
func (b *MockBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	receipt, exists := b.receipts[txHash]
	if !exists {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (b *MockBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *MockBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}
