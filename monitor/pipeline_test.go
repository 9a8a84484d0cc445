package monitor

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestRunPipeline_AtHead_NoBlockYet(t *testing.T) {
	client := &fakeNodeClient{blocks: map[uint64]*gethtypes.Block{}}
	reader := &fakeChainReader{}

	outcome := runPipeline(context.Background(), client, reader, nil, 12, false)
	require.Equal(t, AtHead, outcome.Kind)
}

func TestRunPipeline_AlreadyPersisted_Ignores(t *testing.T) {
	header := &gethtypes.Header{Number: big.NewInt(12)}
	block := gethtypes.NewBlockWithHeader(header)
	client := &fakeNodeClient{blocks: map[uint64]*gethtypes.Block{12: block}}
	reader := &fakeChainReader{
		byHash:       map[common.Hash]int{block.Hash(): 0},
		heightTotals: map[uint64]int{12: 0},
	}

	// persister is never touched on this path, so a nil *persister is safe.
	outcome := runPipeline(context.Background(), client, reader, nil, 12, false)
	require.Equal(t, AlreadyExists, outcome.Kind)
	require.Equal(t, block.Hash(), outcome.Hash)
}

func TestRunPipeline_FetchFatal_PropagatesFatal(t *testing.T) {
	client := &fakeNodeClient{
		blocks: map[uint64]*gethtypes.Block{},
		errs:   map[uint64]error{12: fatalTestErr{}},
	}
	reader := &fakeChainReader{}

	outcome := runPipeline(context.Background(), client, reader, nil, 12, false)
	require.Equal(t, Fatal, outcome.Kind)
	require.Error(t, outcome.Err)
}

type fatalTestErr struct{}

func (fatalTestErr) Error() string { return "execution reverted" }
