package monitorconfig

import "time"

// Config contains configuration options for one Cache Monitor instance. It
// follows the teacher's "plain struct, toml tags where a field shouldn't
// round-trip to a file" shape (mive/miveconfig.Config).
type Config struct {
	// BlockchainID is the opaque identifier used in every store query to
	// scope rows to this chain (spec.md §6). A process runs exactly one
	// chain; running several means running several processes.
	BlockchainID string

	// EthRpcURLs lists the node endpoints the rpcclient fails over across,
	// in priority order. At least one is required.
	EthRpcURLs []string

	// StartBlockOverride, if non-nil, is used as the initial cursor instead
	// of the store's latest-block height.
	StartBlockOverride *uint64 `toml:",omitempty"`

	// EndBlockOverride, if non-nil, causes the cursor loop to terminate
	// cleanly once the cursor reaches or exceeds it, before any further
	// fetch.
	EndBlockOverride *uint64 `toml:",omitempty"`

	// DatabaseDSN is the Postgres connection string passed to pgxpool.
	DatabaseDSN string

	// DatabaseMaxConns bounds the session pool size (spec.md §5: one
	// session per in-flight pipeline).
	DatabaseMaxConns int32 `toml:",omitempty"`

	// ABIConfigPath points at the contract-identifier registry the decoder
	// loads at startup (address -> ABI JSON).
	ABIConfigPath string `toml:",omitempty"`

	// Review/poll timing overrides; zero means "use the params package
	// default".
	ReviewBlockLimit              uint64        `toml:",omitempty"`
	ComprehensiveReviewBlockLimit uint64        `toml:",omitempty"`
	ComprehensiveReviewCountMod   uint64        `toml:",omitempty"`
	ShortReviewSleep              time.Duration `toml:",omitempty"`
	LongReviewSleep               time.Duration `toml:",omitempty"`

	// RPCTimeout bounds every individual node RPC call; DBTimeout bounds
	// every individual pool-level store read (writes inside a *store.Tx are
	// not bounded by it). Per spec.md §5's recommendation, zero means the
	// default, which is the short review sleep.
	RPCTimeout time.Duration `toml:",omitempty"`
	DBTimeout  time.Duration `toml:",omitempty"`
}
