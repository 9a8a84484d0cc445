package monitor

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum-mive/evmcache/rpcclient"
	"github.com/stretchr/testify/require"
)

type fakeNodeClient struct {
	blocks      map[uint64]*gethtypes.Block
	errs        map[uint64]error // one-shot error to return on first call at this height
	cycleCalled int
	calls       int
}

func (f *fakeNodeClient) BlockByNumber(ctx context.Context, n uint64) (*gethtypes.Block, rpcclient.Version, error) {
	f.calls++
	if err, ok := f.errs[n]; ok {
		delete(f.errs, n) // next call (post-cycle) succeeds
		return nil, rpcclient.Version(0), err
	}
	return f.blocks[n], rpcclient.Version(0), nil
}

func (f *fakeNodeClient) Cycle(observed rpcclient.Version) {
	f.cycleCalled++
}

// TransactionReceipt makes fakeNodeClient satisfy pipelineClient too, for
// pipeline_test.go's AlreadyExists/AtHead cases that never reach the
// persister.
func (f *fakeNodeClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, rpcclient.Version, error) {
	return nil, rpcclient.Version(0), nil
}

func TestFetchBlock_NegativeHeight_ShortCircuitsAtHead(t *testing.T) {
	client := &fakeNodeClient{}
	result := fetchBlock(context.Background(), client, -1)
	require.Equal(t, AtHead, result.kind)
	require.Equal(t, 0, client.cycleCalled)
}

func TestFetchBlock_NoBlockYet_AtHead(t *testing.T) {
	client := &fakeNodeClient{blocks: map[uint64]*gethtypes.Block{}}
	result := fetchBlock(context.Background(), client, 5)
	require.Equal(t, AtHead, result.kind)
}

func TestFetchBlock_BlockPresent_Advance(t *testing.T) {
	header := &gethtypes.Header{Number: big.NewInt(5)}
	block := gethtypes.NewBlockWithHeader(header)
	client := &fakeNodeClient{blocks: map[uint64]*gethtypes.Block{5: block}}

	result := fetchBlock(context.Background(), client, 5)
	require.Equal(t, Advance, result.kind)
	require.Equal(t, block.Hash(), result.block.Hash())
}

func TestFetchBlock_TransientError_CyclesOnceThenSucceeds(t *testing.T) {
	header := &gethtypes.Header{Number: big.NewInt(5)}
	block := gethtypes.NewBlockWithHeader(header)
	client := &fakeNodeClient{
		blocks: map[uint64]*gethtypes.Block{5: block},
		errs:   map[uint64]error{5: errors.New("invalid json rpc response")},
	}

	result := fetchBlock(context.Background(), client, 5)
	require.Equal(t, Advance, result.kind)
	require.Equal(t, 1, client.cycleCalled)
}

func TestFetchBlock_ConnectionTimeout_IsTransient(t *testing.T) {
	client := &fakeNodeClient{
		blocks: map[uint64]*gethtypes.Block{5: gethtypes.NewBlockWithHeader(&gethtypes.Header{Number: big.NewInt(5)})},
		errs:   map[uint64]error{5: errors.New("Connection Timeout")},
	}
	result := fetchBlock(context.Background(), client, 5)
	require.Equal(t, Advance, result.kind)
	require.Equal(t, 1, client.cycleCalled)
}

func TestFetchBlock_FatalError_ReturnsFatal(t *testing.T) {
	client := &fakeNodeClient{
		blocks: map[uint64]*gethtypes.Block{},
		errs:   map[uint64]error{5: errors.New("execution reverted")},
	}
	result := fetchBlock(context.Background(), client, 5)
	require.Equal(t, Fatal, result.kind)
	require.Error(t, result.err)
	require.Equal(t, 0, client.cycleCalled)
}
