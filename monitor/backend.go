package monitor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	gethparams "github.com/ethereum/go-ethereum/params"

	"github.com/ethereum-mive/evmcache/decoder"
	"github.com/ethereum-mive/evmcache/internal/shutdowncheck"
	"github.com/ethereum-mive/evmcache/monitorconfig"
	"github.com/ethereum-mive/evmcache/params"
	"github.com/ethereum-mive/evmcache/rpcclient"
	"github.com/ethereum-mive/evmcache/store"
)

// Monitor is the Cache Monitor service: the fetch/reconcile/persist/review
// pipeline described in spec.md §2, wired up and ready to run. It keeps the
// teacher's "config, node client, DB handle, shutdown tracker" field shape
// (mive/backend.go's Mive struct) and its Start/Stop lifecycle, minus the
// account-manager/execution-layer responsibilities that shape never needed
// here.
type Monitor struct {
	config *monitorconfig.Config

	client *rpcclient.Client
	db     *store.Store

	handler *handler

	shutdownTracker *shutdowncheck.ShutdownTracker
	memsizeStop     chan struct{}
}

// New dials the configured RPC endpoints, opens the database, and assembles
// the pipeline, but does not start it — call Start for that.
func New(ctx context.Context, config *monitorconfig.Config) (*Monitor, error) {
	rpcTimeout, dbTimeout := config.RPCTimeout, config.DBTimeout
	if rpcTimeout <= 0 {
		rpcTimeout = params.DefaultShortReviewSleep
	}
	if dbTimeout <= 0 {
		dbTimeout = params.DefaultShortReviewSleep
	}

	client, err := rpcclient.Dial(ctx, config.EthRpcURLs, rpcTimeout)
	if err != nil {
		return nil, fmt.Errorf("monitor: dial rpc: %w", err)
	}

	if chainID, err := client.ChainID(ctx); err != nil {
		log.Warn("Failed to fetch chain ID from node", "err", err)
	} else {
		reviewBlockLimit, comprehensiveReviewBlockLimit, comprehensiveReviewCountMod, _, _ := resolveTiming(config)
		chainCfg := params.NewChainConfig(&gethparams.ChainConfig{ChainID: chainID},
			reviewBlockLimit, comprehensiveReviewBlockLimit, comprehensiveReviewCountMod)
		log.Info("Chain config", "info", chainCfg.Description())
	}

	db, err := store.Open(ctx, config.DatabaseDSN, config.DatabaseMaxConns, dbTimeout)
	if err != nil {
		return nil, fmt.Errorf("monitor: open store: %w", err)
	}

	registry, err := decoder.Load(config.ABIConfigPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("monitor: load abi config: %w", err)
	}

	h, err := newHandler(ctx, &handlerConfig{
		config:   config,
		client:   client,
		db:       db,
		decoder:  registry,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	m := &Monitor{
		config:          config,
		client:          client,
		db:              db,
		handler:         h,
		shutdownTracker: shutdowncheck.NewShutdownTracker(db, config.BlockchainID),
		memsizeStop:     make(chan struct{}),
	}

	// Successful startup; push a marker and check previous unclean shutdowns.
	m.shutdownTracker.MarkStartup(ctx)

	return m, nil
}

// Start launches the pipeline's background goroutine. It does not block.
func (m *Monitor) Start(ctx context.Context) error {
	m.shutdownTracker.Start(ctx)
	m.startMemsizeReporter()
	m.handler.Start()
	return nil
}

// Done reports the channel that closes when the pipeline exits, either on
// its own (spec.md §4.1's endBlockOverride termination, or a Fatal outcome)
// or after Stop has cancelled it.
func (m *Monitor) Done() <-chan struct{} {
	return m.handler.Done()
}

// Stop signals the pipeline to exit, waits for it, and releases resources.
// It blocks until the in-flight iteration (if any) returns.
func (m *Monitor) Stop() error {
	m.handler.Stop()
	m.shutdownTracker.Stop(context.Background())
	close(m.memsizeStop)
	m.db.Close()
	return nil
}

// ExitCode reports the process exit status the caller should use: zero
// after a clean endBlockOverride termination or explicit Stop, non-zero
// after the pipeline observed a Fatal outcome (spec.md §7's termination
// policy).
func (m *Monitor) ExitCode() int {
	if m.handler.lastErr() != nil {
		return 1
	}
	return 0
}
