package monitor

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ChainReader is the small collection of lookups the Reconciler needs
// against stored state. Grounded on the teacher's
// consensus.ChainHeaderReader — kept the "small interface naming exactly
// the lookups a caller needs" shape, dropped the header-verification half
// (Engine) since this domain does no consensus validation, and swapped
// in-memory/ethdb lookups for store-backed ones.
type ChainReader interface {
	// LatestBlock returns the highest stored block number, or ok=false if
	// the chain has no rows yet.
	LatestBlock(ctx context.Context) (number uint64, ok bool, err error)

	// BlockByHash returns the stored transaction count for hash, or
	// ok=false if no row with that hash exists.
	BlockByHash(ctx context.Context, hash common.Hash) (transactionCount int, ok bool, err error)

	// BlockTransactionCount sums transaction_count across every block row
	// stored at number.
	BlockTransactionCount(ctx context.Context, number uint64) (int, error)
}

// storeChainReader adapts *store.Store to ChainReader for one blockchain ID.
type storeChainReader struct {
	store        blockLookupStore
	blockchainID string
}

// blockLookupStore is the subset of *store.Store the reader needs; kept as
// an interface so tests can fake it without a real Postgres connection.
type blockLookupStore interface {
	GetLatestBlock(ctx context.Context, blockchainID string) (uint64, bool, error)
	GetBlockByHash(ctx context.Context, blockchainID string, hash common.Hash) (int, bool, error)
	GetBlockTransactionCount(ctx context.Context, blockchainID string, number uint64) (int, error)
}

func newChainReader(s blockLookupStore, blockchainID string) ChainReader {
	return &storeChainReader{store: s, blockchainID: blockchainID}
}

func (r *storeChainReader) LatestBlock(ctx context.Context) (uint64, bool, error) {
	return r.store.GetLatestBlock(ctx, r.blockchainID)
}

func (r *storeChainReader) BlockByHash(ctx context.Context, hash common.Hash) (int, bool, error) {
	return r.store.GetBlockByHash(ctx, r.blockchainID, hash)
}

func (r *storeChainReader) BlockTransactionCount(ctx context.Context, number uint64) (int, error) {
	return r.store.GetBlockTransactionCount(ctx, r.blockchainID, number)
}
