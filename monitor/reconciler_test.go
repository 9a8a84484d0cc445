package monitor

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

// fakeChainReader is an in-memory ChainReader for reconciler tests.
type fakeChainReader struct {
	latest       uint64
	latestOK     bool
	byHash       map[common.Hash]int
	heightTotals map[uint64]int
	err          error
}

func (f *fakeChainReader) LatestBlock(ctx context.Context) (uint64, bool, error) {
	return f.latest, f.latestOK, f.err
}

func (f *fakeChainReader) BlockByHash(ctx context.Context, hash common.Hash) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	count, ok := f.byHash[hash]
	return count, ok, nil
}

func (f *fakeChainReader) BlockTransactionCount(ctx context.Context, number uint64) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.heightTotals[number], nil
}

func newTestBlock(number uint64, nTxs int) *gethtypes.Block {
	header := &gethtypes.Header{Number: new(big.Int).SetUint64(number)}
	txs := make([]*gethtypes.Transaction, nTxs)
	for i := range txs {
		txs[i] = gethtypes.NewTransaction(uint64(i), common.Address{}, big.NewInt(0), 21000, big.NewInt(0), nil)
	}
	return gethtypes.NewBlockWithHeader(header).WithBody(txs, nil)
}

func TestReconcile_NewHash_InsertsNew(t *testing.T) {
	block := newTestBlock(10, 2)
	reader := &fakeChainReader{byHash: map[common.Hash]int{}}

	decision, err := reconcile(context.Background(), reader, block, false)
	require.NoError(t, err)
	require.Equal(t, decisionInsertNew, decision)
}

func TestReconcile_ExistingHash_CountsMatch_Ignores(t *testing.T) {
	block := newTestBlock(10, 2)
	reader := &fakeChainReader{
		byHash:       map[common.Hash]int{block.Hash(): 2},
		heightTotals: map[uint64]int{10: 2},
	}

	decision, err := reconcile(context.Background(), reader, block, false)
	require.NoError(t, err)
	require.Equal(t, decisionIgnore, decision)
}

func TestReconcile_ExistingHash_HeightHasStaleExtraRows_Rewrites(t *testing.T) {
	block := newTestBlock(10, 2)
	reader := &fakeChainReader{
		byHash:       map[common.Hash]int{block.Hash(): 2},
		heightTotals: map[uint64]int{10: 5}, // stale rows from a since-replaced sibling hash
	}

	decision, err := reconcile(context.Background(), reader, block, false)
	require.NoError(t, err)
	require.Equal(t, decisionRewrite, decision)
}

func TestReconcile_ExistingHash_TransactionCountChanged_Rewrites(t *testing.T) {
	block := newTestBlock(10, 3) // node now reports 3 txs for this hash
	reader := &fakeChainReader{
		byHash: map[common.Hash]int{block.Hash(): 2}, // but only 2 were persisted last pass
	}

	decision, err := reconcile(context.Background(), reader, block, false)
	require.NoError(t, err)
	require.Equal(t, decisionRewrite, decision)
}

func TestReconcile_ReaderError_Propagates(t *testing.T) {
	block := newTestBlock(10, 2)
	reader := &fakeChainReader{err: errors.New("boom")}

	_, err := reconcile(context.Background(), reader, block, false)
	require.Error(t, err)
}
