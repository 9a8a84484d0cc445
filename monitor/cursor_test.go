package monitor

import (
	"context"
	"errors"
	"testing"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestCursorLoop_Run_EndBlockOverride_StopsWithoutFetching(t *testing.T) {
	end := uint64(5)
	client := &fakeNodeClient{blocks: map[uint64]*gethtypes.Block{}}
	reader := &fakeChainReader{}

	loop := &cursorLoop{
		client:           client,
		reader:           reader,
		blockchainID:     "mainnet",
		endBlockOverride: &end,
	}

	err := loop.run(context.Background(), end)
	require.NoError(t, err)
	require.Equal(t, 0, client.calls)
}

func TestCursorLoop_Run_ContextCancelled_ReturnsContextError(t *testing.T) {
	client := &fakeNodeClient{blocks: map[uint64]*gethtypes.Block{}}
	reader := &fakeChainReader{}
	loop := &cursorLoop{client: client, reader: reader, blockchainID: "mainnet"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loop.run(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, client.calls)
}

func TestCursorLoop_Run_ReviewFatal_TerminatesLoop(t *testing.T) {
	client := &fakeNodeClient{
		blocks: map[uint64]*gethtypes.Block{},
		errs:   map[uint64]error{4: errors.New("execution reverted")},
	}
	reader := &fakeChainReader{}
	loop := &cursorLoop{
		client:           client,
		reader:           reader,
		blockchainID:     "mainnet",
		reviewBlockLimit: 1,
	}

	err := loop.run(context.Background(), 5)
	require.Error(t, err)
}
