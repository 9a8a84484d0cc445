package rpcclient

import (
	"testing"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/require"
)

func newTestClient(n int) *Client {
	c := &Client{
		endpoints: make([]string, n),
		clients:   make([]*ethclient.Client, n),
	}
	for i := range c.endpoints {
		c.endpoints[i] = "endpoint"
	}
	return c
}

func currentVersion(c *Client) Version {
	return Version(c.version.Load())
}

func TestCycle_AdvancesToNextEndpointAndBumpsVersion(t *testing.T) {
	c := newTestClient(3)
	v0 := currentVersion(c)

	c.Cycle(v0)

	require.EqualValues(t, 1, c.current.Load())
	require.NotEqual(t, v0, currentVersion(c))
}

func TestCycle_WrapsAroundAtEnd(t *testing.T) {
	c := newTestClient(2)
	c.Cycle(currentVersion(c))
	c.Cycle(currentVersion(c))

	require.EqualValues(t, 0, c.current.Load())
}

func TestCycle_StaleVersionIsNoOp(t *testing.T) {
	c := newTestClient(3)
	v0 := currentVersion(c)

	c.Cycle(v0) // advances to endpoint 1, version bumps
	c.Cycle(v0) // stale: version no longer matches, must be ignored

	require.EqualValues(t, 1, c.current.Load())
}

func TestCycle_ConcurrentCallsWithSameObservedVersion_CycleOnlyOnce(t *testing.T) {
	c := newTestClient(4)
	v0 := currentVersion(c)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			c.Cycle(v0)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	require.EqualValues(t, 1, c.current.Load())
}
