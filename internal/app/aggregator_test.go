package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebench/internal/domain"
)

func TestLocalAggregatorNoLostUpdates(t *testing.T) {
	const (
		trials  = 50
		workers = 64
		adds    = 500
	)

	for trial := 0; trial < trials; trial++ {
		agg := NewLocalAggregator()

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < adds; i++ {
					assert.NoError(t, agg.Add(domain.Counts{Low: 1, Mid: 2, High: 3}))
				}
			}()
		}
		wg.Wait()

		got, err := agg.Snapshot()
		require.NoError(t, err)
		n := int64(workers * adds)
		require.Equal(t, domain.Counts{Low: n, Mid: 2 * n, High: 3 * n}, got, "trial %d", trial)
		require.NoError(t, agg.Close())
	}
}

func TestLocalAggregatorClosed(t *testing.T) {
	agg := NewLocalAggregator()
	require.NoError(t, agg.Add(domain.Counts{Low: 1}))
	require.NoError(t, agg.Close())

	assert.ErrorIs(t, agg.Add(domain.Counts{Low: 1}), domain.ErrChannelClosed)
	_, err := agg.Snapshot()
	assert.ErrorIs(t, err, domain.ErrChannelClosed)
}
