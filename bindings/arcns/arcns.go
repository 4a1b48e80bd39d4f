// Package arcns contains a Go binding for the ARC name registry contract.
package arcns

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ArcnsMetaData contains all meta data concerning the Arcns contract.
var ArcnsMetaData = &bind.MetaData{
	ABI: `[
	{"inputs":[{"internalType":"string","name":"name","type":"string"}],"name":"register","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"string","name":"name","type":"string"}],"name":"resolve","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`,
}

// ArcnsABI is the input ABI used to generate the binding from.
var ArcnsABI = ArcnsMetaData.ABI

// Arcns is a binding around the name registry contract.
type Arcns struct {
	ArcnsCaller
	ArcnsTransactor
}

// ArcnsCaller is a read-only binding around the contract.
type ArcnsCaller struct {
	contract *bind.BoundContract
}

// ArcnsTransactor is a write-only binding around the contract.
type ArcnsTransactor struct {
	contract *bind.BoundContract
}

// NewArcns creates a new instance of Arcns, bound to a specific deployed contract.
func NewArcns(address common.Address, backend bind.ContractBackend) (*Arcns, error) {
	contract, err := bindArcns(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &Arcns{ArcnsCaller: ArcnsCaller{contract: contract}, ArcnsTransactor: ArcnsTransactor{contract: contract}}, nil
}

func bindArcns(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := ArcnsMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, errors.New("GetABI returned nil")
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, filterer), nil
}

// ParsedABI returns the parsed contract ABI.
func ParsedABI() (*abi.ABI, error) {
	return ArcnsMetaData.GetAbi()
}

// Resolve is a free data retrieval call binding the contract method resolve.
//
// Solidity: function resolve(string name) view returns(address)
func (_Arcns *ArcnsCaller) Resolve(opts *bind.CallOpts, name string) (common.Address, error) {
	var out []interface{}
	err := _Arcns.contract.Call(opts, &out, "resolve", name)
	if err != nil {
		return *new(common.Address), err
	}

	out0 := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return out0, err
}

// Register is a paid mutator transaction binding the contract method register.
//
// Solidity: function register(string name) returns()
func (_Arcns *ArcnsTransactor) Register(opts *bind.TransactOpts, name string) (*types.Transaction, error) {
	return _Arcns.contract.Transact(opts, "register", name)
}
