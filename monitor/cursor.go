package monitor

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// cursorLoop owns the next-block cursor and drives spec.md §4.1. It is the
// top of the monitor's single per-chain ingestion worker (spec.md §5): the
// review scheduler it calls into on every atHead poll runs its own fetches
// concurrently but never touches this cursor directly.
type cursorLoop struct {
	client           pipelineClient
	reader           ChainReader
	persister        *persister
	blockchainID     string
	endBlockOverride *uint64

	reviewBlockLimit             uint64
	comprehensiveReviewBlockLimit uint64
	comprehensiveReviewCountMod  uint64
	shortReviewSleep             time.Duration
	longReviewSleep              time.Duration

	reviewCounter uint64
}

// run blocks until ctx is cancelled or a fatal outcome or endBlockOverride
// termination occurs. cursor is the initial value (spec.md §4.1's "initial
// cursor value" input, computed by the caller from DB max or a configured
// override; see handler.go's newHandler).
func (c *cursorLoop) run(ctx context.Context, cursor uint64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if c.endBlockOverride != nil && cursor >= *c.endBlockOverride {
			log.Info("Reached end block override, stopping", "cursor", cursor, "end", *c.endBlockOverride)
			return nil
		}

		outcome := runPipeline(ctx, c.client, c.reader, c.persister, int64(cursor), false)
		switch outcome.Kind {
		case Fatal:
			return outcome.Err
		case AlreadyExists, Advance:
			cursor++
			continue
		case AtHead:
			if err := c.runReview(ctx, cursor); err != nil {
				return err
			}
			// re-enter at the same cursor value (spec.md §4.1).
		}
	}
}

// runReview implements spec.md §4.5. It launches one pipeline run per
// height in the selected window, each index-parameterised so every
// goroutine binds its own height (spec.md §9's loop-variable-capture design
// note), joins them through the same errgroup join-barrier idiom
// persister.go's receipt fetch uses, then sleeps for the cadence the window
// selection implies. A Fatal outcome from any height is spec.md §4.2's
// termination-worthy error class regardless of which fetch call found it,
// so it is returned rather than merely logged, keeping review and
// main-loop fetches on the same termination path.
func (c *cursorLoop) runReview(ctx context.Context, cursor uint64) error {
	c.reviewCounter++

	var from int64
	var sleep time.Duration
	if c.comprehensiveReviewCountMod > 0 && c.reviewCounter%c.comprehensiveReviewCountMod == 0 {
		from = int64(cursor) - int64(c.comprehensiveReviewBlockLimit)
		sleep = c.longReviewSleep
	} else {
		from = int64(cursor) - int64(c.reviewBlockLimit)
		sleep = c.shortReviewSleep
	}
	to := int64(cursor) - 1

	g, gctx := errgroup.WithContext(ctx)
	for h := from; h <= to; h++ {
		height := h // own binding per iteration, not shared across goroutines
		g.Go(func() error {
			outcome := runPipeline(gctx, c.client, c.reader, c.persister, height, true)
			if outcome.Kind == FoundDuringReview {
				log.Info("Review pass found and persisted a missed block", "height", outcome.Number, "hash", outcome.Hash)
			}
			if outcome.Kind == Fatal {
				return outcome.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-time.After(sleep):
	}
	return nil
}
