package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/ethereum-mive/evmcache/params"
	"github.com/ethereum-mive/evmcache/rpcclient"
	"github.com/ethereum-mive/evmcache/store"
	cachetypes "github.com/ethereum-mive/evmcache/types"
)

// receiptClient is the subset of *rpcclient.Client the persister needs to
// fetch receipts concurrently.
type receiptClient interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, rpcclient.Version, error)
}

// logDecoder is the contract identifier / log decoder collaborator
// (spec.md §1): called once per log, given the store-assigned log_id.
type logDecoder interface {
	DecodeLog(ctx context.Context, logID int64, l *cachetypes.Log) error
}

// persister executes spec.md §4.4 within a single session-scoped
// transaction. The source's step B "BEGIN" is folded into the single
// transaction bracket this type manages end to end (Begin precedes step A,
// Commit/Rollback follow step F).
type persister struct {
	db           *store.Store
	decoder      logDecoder
	blockchainID string
}

func (p *persister) persist(ctx context.Context, client receiptClient, decision reconcileDecision, block *gethtypes.Block) error {
	n := block.NumberU64()
	hash := block.Hash()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("monitor: persist begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if decision == decisionInsertNew {
		row := blockToRow(p.blockchainID, block, 0)
		affected, err := store.AddBlock(ctx, tx, row)
		if err != nil {
			return p.fail(fmt.Errorf("monitor: insert block: %w", err))
		}
		if affected == 0 {
			return p.fail(fmt.Errorf("monitor: insert block %d/%s: zero rows affected", n, hash))
		}
	}

	if err := store.DeleteLogs(ctx, tx, p.blockchainID, n); err != nil {
		return p.fail(err)
	}
	if err := store.DeleteTransactions(ctx, tx, p.blockchainID, n); err != nil {
		return p.fail(err)
	}
	if err := store.DeleteOmmers(ctx, tx, p.blockchainID, n); err != nil {
		return p.fail(err)
	}
	for _, uncle := range block.Uncles() {
		if err := store.AddOmmer(ctx, tx, &cachetypes.Ommer{
			BlockchainID: p.blockchainID,
			NiblingHash:  hash,
			OmmerHash:    uncle.Hash(),
		}); err != nil {
			return p.fail(err)
		}
	}

	persistedCount, err := p.persistTransactions(ctx, client, tx, block)
	if err != nil {
		return p.fail(err)
	}

	// transaction_count reflects what this pass actually persisted, not
	// the node's reported list length: a transaction skipped for a
	// missing receipt makes this value diverge from the next poll's
	// fetched count, which is exactly what drives the reconciler to retry
	// this hash on a later pass (spec.md §4.4's edge case, §8's healing
	// property).
	if err := updateTransactionCount(ctx, tx, p.blockchainID, hash, persistedCount); err != nil {
		return p.fail(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return p.fail(fmt.Errorf("monitor: commit: %w", err))
	}
	committed = true
	return nil
}

func (p *persister) fail(cause error) error {
	log.Error("Persist failed, rolling back", "err", cause)
	time.Sleep(params.DefaultPersistFailureSleep)
	return cause
}

// persistTransactions fetches every transaction's receipt concurrently, then
// writes serially against the one open transaction (a single pgx connection
// cannot serve concurrent statements) — the join barrier spec.md §5
// describes precedes any write, not just the final COMMIT.
func (p *persister) persistTransactions(ctx context.Context, client receiptClient, tx *store.Tx, block *gethtypes.Block) (int, error) {
	txs := block.Transactions()
	receipts := make([]*gethtypes.Receipt, len(txs))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range txs {
		i, t := i, t
		g.Go(func() error {
			receipt, _, err := client.TransactionReceipt(gctx, t.Hash())
			if err != nil {
				return err
			}
			receipts[i] = receipt // nil means "not yet available" (spec.md §4.4 edge case)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("monitor: fetch receipts: %w", err)
	}

	persisted := 0
	for i, t := range txs {
		receipt := receipts[i]
		if receipt == nil {
			log.Warn("Receipt not yet available, skipping transaction", "hash", t.Hash(), "height", block.NumberU64())
			continue
		}
		signer := gethtypes.LatestSignerForChainID(t.ChainId())
		row := transactionToRow(block, t, receipt, uint(i), signer)
		affected, err := store.AddTransaction(ctx, tx, p.blockchainID, row)
		if err != nil {
			return 0, fmt.Errorf("monitor: insert transaction %s: %w", t.Hash(), err)
		}
		if affected == 0 {
			return 0, fmt.Errorf("monitor: insert transaction %s: zero rows affected", t.Hash())
		}
		if len(receipt.Logs) > 0 {
			if err := store.DeleteLogsByTransactionHash(ctx, tx, t.Hash()); err != nil {
				return 0, err
			}
		}
		for _, rl := range receipt.Logs {
			logRow := logToRow(t.Hash(), rl)
			logID, affected, err := store.AddLog(ctx, tx, p.blockchainID, logRow)
			if err != nil {
				return 0, fmt.Errorf("monitor: insert log %s/%d: %w", t.Hash(), rl.Index, err)
			}
			if affected == 0 {
				log.Warn("Log insert affected zero rows, will retry on review", "tx", t.Hash(), "index", rl.Index)
				continue
			}
			if p.decoder != nil {
				if err := p.decoder.DecodeLog(ctx, logID, logRow); err != nil {
					log.Warn("Log decode failed", "log_id", logID, "err", err)
				}
			}
		}
		persisted++
	}
	return persisted, nil
}

func updateTransactionCount(ctx context.Context, tx *store.Tx, blockchainID string, hash common.Hash, count int) error {
	_, err := tx.Exec(ctx, `UPDATE blocks SET transaction_count = $1 WHERE blockchain_id = $2 AND hash = $3`,
		count, blockchainID, hash.Bytes())
	return err
}
