package config

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = "0x0123456789abcdef0123456789abcdef01234567"

func TestLoad(t *testing.T) {
	cfg, err := Load(testContract, "https://rpc.testnet.arc.network", 0, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testContract), cfg.ContractAddress)
	assert.Equal(t, "https://rpc.testnet.arc.network", cfg.RPCEndpoint)
	assert.Equal(t, time.Minute, cfg.ConfirmTimeout)

	cfg, err = Load(testContract[2:], "/tmp/geth.ipc", 1337, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), cfg.ChainID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contract string
		rpc      string
		chainID  int64
		timeout  time.Duration
		errIs    error
	}{
		{name: "missing contract", rpc: "http://127.0.0.1:8545", errIs: ErrMissingContract},
		{name: "missing rpc", contract: testContract, errIs: ErrMissingRPC},
		{name: "short contract", contract: "0x1234", rpc: "http://127.0.0.1:8545"},
		{name: "zero contract", contract: "0x0000000000000000000000000000000000000000", rpc: "http://127.0.0.1:8545"},
		{name: "bad scheme", contract: testContract, rpc: "ftp://example.com"},
		{name: "negative chain id", contract: testContract, rpc: "http://127.0.0.1:8545", chainID: -1},
		{name: "negative timeout", contract: testContract, rpc: "http://127.0.0.1:8545", timeout: -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.contract, tt.rpc, tt.chainID, tt.timeout)
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}
