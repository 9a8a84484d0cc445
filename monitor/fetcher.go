package monitor

import (
	"context"
	"strings"
	"time"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-mive/evmcache/params"
	"github.com/ethereum-mive/evmcache/rpcclient"
)

// nodeClient is the subset of *rpcclient.Client the fetcher depends on.
type nodeClient interface {
	BlockByNumber(ctx context.Context, n uint64) (*gethtypes.Block, rpcclient.Version, error)
	Cycle(observed rpcclient.Version)
}

// fetchResult is the fetcher's half of the tagged outcome in outcome.go —
// it additionally carries the fetched block, which only the fetcher
// produces.
type fetchResult struct {
	kind  OutcomeKind // AtHead, Advance (meaning "block present"), or Fatal
	block *gethtypes.Block
	err   error
}

// fetchBlock implements spec.md §4.2. A transient classification is retried
// in-process at the same height until a non-transient result arrives, with
// the endpoint cycled at most once per call; spec.md §9's open question on
// negative heights is resolved here by short-circuiting before any RPC call.
func fetchBlock(ctx context.Context, client nodeClient, n int64) fetchResult {
	if n < 0 {
		return fetchResult{kind: AtHead}
	}

	cycled := false
	for {
		block, version, err := client.BlockByNumber(ctx, uint64(n))
		if err == nil {
			if block == nil {
				return fetchResult{kind: AtHead}
			}
			return fetchResult{kind: Advance, block: block}
		}

		if isTransient(err) {
			// At most one cycle per fetch call, even if the underlying
			// client delivers the transient classification twice — the
			// local flag and rpcclient.Client's version-gated Cycle are
			// belt and suspenders (spec.md §4.2, §9).
			if !cycled {
				log.Warn("Transient node error, cycling endpoint", "height", n, "err", err)
				client.Cycle(version)
				cycled = true
			}
			continue
		}

		log.Error("Fatal error fetching block", "height", n, "err", err)
		time.Sleep(params.DefaultFatalExitSleep)
		return fetchResult{kind: Fatal, err: err}
	}
}

// isTransient matches spec.md §4.2's two transient error classes,
// case-insensitively.
func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid json rpc response") ||
		strings.Contains(msg, "connection timeout")
}
