package params

import (
	"fmt"

	"github.com/ethereum/go-ethereum/params"
)

// ChainConfig describes the network a monitor instance tracks plus the
// resolved review/poll timing it is running with (spec.md §4.5, §4.2,
// §4.4), logged once at startup (monitor/backend.go's New) so an operator can
// see both from one line. It keeps the teacher's "wrap the upstream Eth
// config, attach a domain-specific sibling" shape.
type ChainConfig struct {
	Eth   *params.ChainConfig `json:"eth,omitempty"`
	Cache *CacheMonitorConfig `json:"cache,omitempty"`
}

// CacheMonitorConfig holds the review/poll timing a monitor instance is
// actually running with, after CLI/TOML overrides have been resolved
// against the protocol_params.go defaults (monitor.resolveTiming).
type CacheMonitorConfig struct {
	ReviewBlockLimit              uint64 `json:"reviewBlockLimit,omitempty"`
	ComprehensiveReviewBlockLimit uint64 `json:"comprehensiveReviewBlockLimit,omitempty"`
	ComprehensiveReviewCountMod   uint64 `json:"comprehensiveReviewCountMod,omitempty"`
}

// NewChainConfig builds a ChainConfig from the node's reported Eth chain
// config and a monitor instance's already-resolved review timing.
func NewChainConfig(eth *params.ChainConfig, reviewBlockLimit, comprehensiveReviewBlockLimit, comprehensiveReviewCountMod uint64) *ChainConfig {
	return &ChainConfig{
		Eth: eth,
		Cache: &CacheMonitorConfig{
			ReviewBlockLimit:              reviewBlockLimit,
			ComprehensiveReviewBlockLimit: comprehensiveReviewBlockLimit,
			ComprehensiveReviewCountMod:   comprehensiveReviewCountMod,
		},
	}
}

// Description returns a human-readable description of ChainConfig, logged
// once at startup.
func (c *ChainConfig) Description() string {
	network := params.NetworkNames[c.Eth.ChainID.String()]
	if network == "" {
		network = "unknown"
	}
	return fmt.Sprintf("Chain ID: %v (%s), review window: %d blocks (comprehensive: %d every %d passes)\n",
		c.Eth.ChainID, network, c.Cache.ReviewBlockLimit, c.Cache.ComprehensiveReviewBlockLimit, c.Cache.ComprehensiveReviewCountMod)
}
