// Package rpcclient implements the node-client collaborator spec.md §6
// describes: a failover-capable handle onto an execution node's JSON-RPC
// surface. The Cache Monitor depends only on the contract in this file.
package rpcclient

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
)

// Client rotates across a configured list of endpoints. cycleNodes mutates
// which endpoint is "current"; per spec.md §9's "node client as a mutable
// identity" design note, that identity is exposed as an immutable Version
// token so a caller that observed a transient error on version V can pass V
// back to Cycle and be guaranteed not to double-cycle even without any
// caller-side locking, regardless of how many other calls are in flight.
type Client struct {
	endpoints []string
	clients   []*ethclient.Client

	// current indexes into endpoints/clients. version increments every
	// time Cycle actually rotates it.
	current atomic.Int64
	version atomic.Uint64

	// timeout bounds every individual RPC call below, if non-zero
	// (monitorconfig.Config.RPCTimeout).
	timeout time.Duration
}

// Dial connects to every endpoint in order, keeping the first as current.
// At least one endpoint is required. A non-zero timeout bounds every
// individual call made through the returned Client.
func Dial(ctx context.Context, endpoints []string, timeout time.Duration) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("rpcclient: at least one endpoint is required")
	}
	clients := make([]*ethclient.Client, len(endpoints))
	for i, ep := range endpoints {
		c, err := ethclient.DialContext(ctx, ep)
		if err != nil {
			return nil, fmt.Errorf("rpcclient: dial %s: %w", ep, err)
		}
		clients[i] = c
	}
	return &Client{endpoints: endpoints, clients: clients, timeout: timeout}, nil
}

// withTimeout wraps ctx with c.timeout, if configured.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Version identifies the endpoint a caller observed an error against. It is
// returned by BlockByNumber and TransactionReceipt alongside the
// result/error so a caller can pass it back to Cycle.
type Version uint64

// currentClient returns the active client and the version it was read at.
func (c *Client) currentClient() (*ethclient.Client, Version) {
	idx := c.current.Load()
	return c.clients[idx], Version(c.version.Load())
}

// Endpoint reports the currently active endpoint, for logging.
func (c *Client) Endpoint() string {
	return c.endpoints[c.current.Load()]
}

// ChainID reports the network's chain ID. Dial already proved the current
// endpoint reachable, so this is called once at startup with no failover.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	cl, _ := c.currentClient()
	return cl.ChainID(ctx)
}

// Cycle rotates to the next configured endpoint, but only if observed is
// still the current version — a second caller racing in with the same
// observed version after a first cycle already happened is a no-op. This
// makes the "at most one cycle per fetch" guarantee in spec.md §4.2 hold
// even without the fetcher's own local flag, and makes Cycle safe to call
// concurrently with in-flight requests on the old endpoint (they fail or
// get cancelled; their callers retry, per spec.md §5).
func (c *Client) Cycle(observed Version) {
	if Version(c.version.Load()) != observed {
		return
	}
	n := int64(len(c.clients))
	next := (c.current.Load() + 1) % n
	if !c.version.CompareAndSwap(uint64(observed), uint64(observed)+1) {
		return
	}
	c.current.Store(next)
	log.Info("Cycled node endpoint", "endpoint", c.endpoints[next])
}

// BlockByNumber fetches the full block at n, including transactions and
// uncle hashes. A nil block with a nil error means the node has no block at
// that height yet (spec.md §4.2's "empty block response").
func (c *Client) BlockByNumber(ctx context.Context, n uint64) (*types.Block, Version, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	cl, v := c.currentClient()
	block, err := cl.BlockByNumber(ctx, new(big.Int).SetUint64(n))
	if err != nil {
		if err == ethereum.NotFound {
			return nil, v, nil
		}
		return nil, v, err
	}
	return block, v, nil
}

// TransactionReceipt fetches the receipt for hash. A nil receipt with a nil
// error means the node hasn't mined/indexed the receipt yet (spec.md §4.4's
// "missing receipt" edge case).
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, Version, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	cl, v := c.currentClient()
	receipt, err := cl.TransactionReceipt(ctx, hash)
	if err != nil {
		if err == ethereum.NotFound {
			return nil, v, nil
		}
		return nil, v, err
	}
	return receipt, v, nil
}
