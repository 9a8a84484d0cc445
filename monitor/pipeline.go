package monitor

import (
	"context"
)

// pipelineClient is the full node-client contract one pipeline run needs:
// the fetcher's block lookup plus the persister's per-transaction receipt
// lookup, both failover-aware. *rpcclient.Client satisfies it.
type pipelineClient interface {
	nodeClient
	receiptClient
}

// runPipeline is spec.md §2's data flow — cursor → fetcher → (empty |
// block → reconciler → persister) — collapsed into one call that returns
// the tagged Outcome the cursor loop and review scheduler both
// pattern-match on. reviewMode only affects logging and the resulting
// OutcomeKind on a fresh insert (Advance vs FoundDuringReview); it never
// influences what gets written.
func runPipeline(ctx context.Context, client pipelineClient, reader ChainReader, p *persister, n int64, reviewMode bool) Outcome {
	fr := fetchBlock(ctx, client, n)
	switch fr.kind {
	case AtHead:
		return Outcome{Kind: AtHead, Number: uint64(n)}
	case Fatal:
		return Outcome{Kind: Fatal, Number: uint64(n), Err: fr.err}
	}

	block := fr.block
	hash := block.Hash()

	decision, err := reconcile(ctx, reader, block, reviewMode)
	if err != nil {
		return Outcome{Kind: Fatal, Number: uint64(n), Hash: hash, Err: err}
	}
	if decision == decisionIgnore {
		return Outcome{Kind: AlreadyExists, Number: uint64(n), Hash: hash}
	}

	if err := p.persist(ctx, client, decision, block); err != nil {
		return Outcome{Kind: Fatal, Number: uint64(n), Hash: hash, Err: err}
	}
	if reviewMode && decision == decisionInsertNew {
		return Outcome{Kind: FoundDuringReview, Number: uint64(n), Hash: hash}
	}
	return Outcome{Kind: Advance, Number: uint64(n), Hash: hash}
}
