package monitor

import (
	"context"
	"fmt"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// reconcileDecision is the Reconciler's verdict for a freshly fetched
// block, per spec.md §4.3. Its tie-break rule: a hash already present is
// authoritative for its transaction set; a height with extra rows
// indicates uncling and is resolved by trusting the current fetch. This
// control-flow shape — compare against the stored canonical row, decide
// ignore/rewrite/insert — is patterned on the teacher's
// core/headerchain.go Reorg method, rewritten against SQL row comparison
// instead of total-difficulty fork choice (see DESIGN.md).
type reconcileDecision int

const (
	// decisionIgnore means the fetched block is already correctly stored;
	// spec.md §4.3 step 2's "both counts match" branch.
	decisionIgnore reconcileDecision = iota
	// decisionRewrite means the block row already exists but its
	// associated data needs clearing and rewriting (stale transactions or
	// a reorg re-inclusion at this hash); spec.md §4.3 step 2's other
	// branch. The block row itself is not reinserted.
	decisionRewrite
	// decisionInsertNew means no row exists for this hash; spec.md §4.3
	// step 3.
	decisionInsertNew
)

// reconcile implements spec.md §4.3.
func reconcile(ctx context.Context, reader ChainReader, block *gethtypes.Block, reviewMode bool) (reconcileDecision, error) {
	n := block.NumberU64()
	hash := block.Hash()
	fetchedCount := len(block.Transactions())

	storedCount, exists, err := reader.BlockByHash(ctx, hash)
	if err != nil {
		return 0, fmt.Errorf("monitor: reconcile lookup by hash: %w", err)
	}
	if exists {
		if storedCount == fetchedCount {
			heightTotal, err := reader.BlockTransactionCount(ctx, n)
			if err != nil {
				return 0, fmt.Errorf("monitor: reconcile height total: %w", err)
			}
			if heightTotal == fetchedCount {
				return decisionIgnore, nil
			}
			log.Info("Stale transactions at height, re-persisting", "height", n, "hash", hash)
			return decisionRewrite, nil
		}
		log.Info("Transaction count changed for stored hash, re-persisting", "height", n, "hash", hash,
			"stored", storedCount, "fetched", fetchedCount)
		return decisionRewrite, nil
	}

	if reviewMode {
		log.Info("Found new block during review", "height", n, "hash", hash)
	}
	return decisionInsertNew, nil
}
