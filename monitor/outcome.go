package monitor

import (
	"github.com/ethereum/go-ethereum/common"
)

// OutcomeKind tags the result of running the pipeline (fetch -> reconcile ->
// persist) for one height. spec.md §9's "Callback-continuation control flow
// -> explicit state" design note: the source expressed this as a bag of
// optional continuation handlers; here it is a single returned value the
// cursor loop and review scheduler pattern-match on instead.
type OutcomeKind int

const (
	// AtHead means the node has no block at this height yet.
	AtHead OutcomeKind = iota
	// AlreadyExists means the reconciler found the fetched block already
	// correctly stored; nothing was written.
	AlreadyExists
	// Advance means a block was fetched and persisted (whether newly
	// inserted or rewritten); the cursor loop may advance past it.
	Advance
	// FoundDuringReview means a review-mode pipeline run inserted a new
	// block the cursor had already passed (a review-mode rewrite reports
	// Advance). It never mutates the cursor (spec.md §4.5).
	FoundDuringReview
	// Fatal means the pipeline hit an unrecoverable error; the caller has
	// already logged it and the process is expected to exit.
	Fatal
)

// Outcome is the tagged result spec.md §9 calls for.
type Outcome struct {
	Kind   OutcomeKind
	Number uint64
	Hash   common.Hash
	Err    error
}
