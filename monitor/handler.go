package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-mive/evmcache/monitorconfig"
	"github.com/ethereum-mive/evmcache/params"
	"github.com/ethereum-mive/evmcache/rpcclient"
	"github.com/ethereum-mive/evmcache/store"
)

// handlerConfig is the collection of initialization parameters needed to
// build the pipeline driver.
type handlerConfig struct {
	config  *monitorconfig.Config
	client  *rpcclient.Client
	db      *store.Store
	decoder logDecoder
}

// handler owns the cursor loop's goroutine: determining the resumption
// height, running Flush-on-start (spec.md §4.6), then driving the loop
// until Stop or a Fatal outcome. Grounded on the teacher's handler stub
// (ethClient + database fields, Start/Stop with no return value) fleshed
// out into the real pipeline driver.
type handler struct {
	cursor        *cursorLoop
	initialCursor uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// newHandler resolves the initial cursor (an override, or the store's
// latest block, or 0 for an empty store — spec.md §7's startup-error
// policy: a missing latest-block result is treated as cursor 0), runs
// Flush-on-start against it, and assembles the cursorLoop.
func newHandler(ctx context.Context, hc *handlerConfig) (*handler, error) {
	cfg := hc.config

	var cursor uint64
	if cfg.StartBlockOverride != nil {
		cursor = *cfg.StartBlockOverride
	} else if latest, ok, err := hc.db.GetLatestBlock(ctx, cfg.BlockchainID); err != nil {
		return nil, err
	} else if ok {
		cursor = latest
	} else {
		cursor = 0
	}

	if err := flushOnStart(ctx, hc.db, cfg.BlockchainID, cursor); err != nil {
		return nil, err
	}

	reader := newChainReader(hc.db, cfg.BlockchainID)
	p := &persister{db: hc.db, decoder: hc.decoder, blockchainID: cfg.BlockchainID}

	reviewBlockLimit, comprehensiveReviewBlockLimit, comprehensiveReviewCountMod, shortReviewSleep, longReviewSleep := resolveTiming(cfg)

	h := &handler{
		initialCursor: cursor,
		cursor: &cursorLoop{
			client:                        hc.client,
			reader:                        reader,
			persister:                     p,
			blockchainID:                  cfg.BlockchainID,
			endBlockOverride:              cfg.EndBlockOverride,
			reviewBlockLimit:              reviewBlockLimit,
			comprehensiveReviewBlockLimit: comprehensiveReviewBlockLimit,
			comprehensiveReviewCountMod:   comprehensiveReviewCountMod,
			shortReviewSleep:              shortReviewSleep,
			longReviewSleep:               longReviewSleep,
		},
	}
	return h, nil
}

func orDefault(v, def uint64) uint64 {
	if v == 0 {
		return def
	}
	return v
}

// resolveTiming applies the protocol_params.go defaults to every review/poll
// knob cfg leaves at zero. Monitor.New also calls this, to log the resolved
// values via params.ChainConfig.Description at startup.
func resolveTiming(cfg *monitorconfig.Config) (reviewBlockLimit, comprehensiveReviewBlockLimit, comprehensiveReviewCountMod uint64, shortReviewSleep, longReviewSleep time.Duration) {
	reviewBlockLimit = orDefault(cfg.ReviewBlockLimit, params.DefaultReviewBlockLimit)
	comprehensiveReviewBlockLimit = orDefault(cfg.ComprehensiveReviewBlockLimit, params.DefaultComprehensiveReviewBlockLimit)
	comprehensiveReviewCountMod = orDefault(cfg.ComprehensiveReviewCountMod, params.DefaultComprehensiveReviewCountMod)
	shortReviewSleep = cfg.ShortReviewSleep
	if shortReviewSleep <= 0 {
		shortReviewSleep = params.DefaultShortReviewSleep
	}
	longReviewSleep = cfg.LongReviewSleep
	if longReviewSleep <= 0 {
		longReviewSleep = params.DefaultLongReviewSleep
	}
	return
}

// Start runs the cursor loop in a background goroutine.
func (h *handler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer close(h.done)
		if err := h.cursor.run(ctx, h.initialCursor); err != nil && ctx.Err() == nil {
			log.Error("Cache monitor pipeline terminated", "err", err)
			h.mu.Lock()
			h.err = err
			h.mu.Unlock()
		}
	}()
}

// Stop cancels the cursor loop and waits for it to return.
func (h *handler) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()
}

// Done reports the channel that closes when the cursor loop returns: on its
// own (a Fatal outcome, or reaching endBlockOverride), or after Stop has
// cancelled it.
func (h *handler) Done() <-chan struct{} {
	return h.done
}

// lastErr reports the error the pipeline exited with, if any (Monitor.ExitCode
// consumes this to pick the process exit status).
func (h *handler) lastErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
