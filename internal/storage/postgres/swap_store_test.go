package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
)

func testSwapSample(start int64) *domain.SwapSample {
	return &domain.SwapSample{
		Pool:         "BTC.BTC",
		AverageSlip:  0.3,
		RunePriceUSD: 4.2,
		ToAssetCount: 12,
		TotalCount:   40,
		TotalFees:    1200.5,
		TotalVolume:  900000.25,
		StartTime:    start,
		EndTime:      start + domain.BaseGranularity,
	}
}

func TestSwapStore_InsertBatchAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapStore(pool)

	inserted, err := store.InsertBatch(ctx, []*domain.SwapSample{
		testSwapSample(0),
		testSwapSample(3600),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	samples, err := store.GetByTimeRange(ctx, "BTC.BTC", 0, 0)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, int64(40), samples[0].TotalCount)
	assert.InDelta(t, 900000.25, samples[0].TotalVolume, 1e-9)
	assert.Equal(t, int64(0), samples[0].StartTime)
	assert.Equal(t, int64(7200), samples[1].EndTime)
}

func TestSwapStore_InsertBatchIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapStore(pool)

	batch := []*domain.SwapSample{testSwapSample(0)}

	inserted, err := store.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	inserted, err = store.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}
