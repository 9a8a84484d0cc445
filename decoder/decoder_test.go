package decoder

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-mive/evmcache/types"
)

const transferABI = `[
	{
		"type": "event",
		"name": "Transfer",
		"anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "value", "type": "uint256", "indexed": false}
		]
	}
]`

var transferSig = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

func writeConfig(t *testing.T, dir string, address string) string {
	t.Helper()
	abiPath := filepath.Join(dir, "erc20.json")
	require.NoError(t, os.WriteFile(abiPath, []byte(transferABI), 0o644))

	cfg := abiConfig{Contracts: []contractEntry{{Address: address, ABIFile: abiPath, Name: "TestToken"}}}
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "contracts.json")
	require.NoError(t, os.WriteFile(cfgPath, raw, 0o644))
	return cfgPath
}

func TestLoad_EmptyPath_AlwaysMissRegistry(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, r)

	l := &types.Log{NTopics: 1, Topics: [4]common.Hash{transferSig}}
	require.NoError(t, r.DecodeLog(context.Background(), 1, l))
}

func TestLoad_ValidConfig_IndexesEventByAddressAndTopic(t *testing.T) {
	dir := t.TempDir()
	addr := "0x0000000000000000000000000000000000001234"
	cfgPath := writeConfig(t, dir, addr)

	r, err := Load(cfgPath)
	require.NoError(t, err)

	events, ok := r.byAddress[common.HexToAddress(addr)]
	require.True(t, ok)
	require.Len(t, events, 1)
}

func TestLoad_InvalidAddress_Errors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "not-an-address")

	_, err := Load(cfgPath)
	require.Error(t, err)
}

func TestLoad_MissingFile_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestDecodeLog_UnknownAddress_IsNotAnError(t *testing.T) {
	dir := t.TempDir()
	addr := "0x0000000000000000000000000000000000001234"
	cfgPath := writeConfig(t, dir, addr)
	r, err := Load(cfgPath)
	require.NoError(t, err)

	l := &types.Log{
		Address: common.HexToAddress("0x0000000000000000000000000000000000ffff"),
		NTopics: 1,
		Topics:  [4]common.Hash{transferSig},
	}
	require.NoError(t, r.DecodeLog(context.Background(), 1, l))
}

func TestDecodeLog_NoTopics_IsNotAnError(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)

	l := &types.Log{NTopics: 0}
	require.NoError(t, r.DecodeLog(context.Background(), 1, l))
}
