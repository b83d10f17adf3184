package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

func testDepthSample(pool string, start int64) *domain.DepthSample {
	return &domain.DepthSample{
		Pool:           pool,
		AssetDepth:     2100000000,
		AssetPrice:     12.5,
		AssetPriceUSD:  65000.0,
		LiquidityUnits: 900000000,
		Luvi:           0.00123,
		MembersCount:   1500,
		RuneDepth:      26250000000,
		SynthSupply:    140000000,
		SynthUnits:     30000000,
		Units:          930000000,
		StartTime:      start,
		EndTime:        start + domain.BaseGranularity,
	}
}

func TestDepthStore_InsertBatchAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepthStore(pool)

	batch := []*domain.DepthSample{
		testDepthSample("BTC.BTC", 0),
		testDepthSample("BTC.BTC", 3600),
	}

	inserted, err := store.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	samples, err := store.GetByTimeRange(ctx, "BTC.BTC", 0, 0)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "BTC.BTC", samples[0].Pool)
	assert.Equal(t, int64(2100000000), samples[0].AssetDepth)
	assert.InDelta(t, 0.00123, samples[0].Luvi, 0.000001)
	assert.NotZero(t, samples[0].ID)
	assert.Equal(t, int64(0), samples[0].StartTime)
	assert.Equal(t, int64(3600), samples[0].EndTime)
}

func TestDepthStore_InsertBatchIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepthStore(pool)

	batch := []*domain.DepthSample{testDepthSample("BTC.BTC", 0)}

	inserted, err := store.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	// Re-ingesting the same window must be a no-op.
	inserted, err = store.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	samples, err := store.GetByTimeRange(ctx, "BTC.BTC", 0, 0)
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestDepthStore_MaxTimesEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepthStore(pool)

	maxStart, err := store.MaxStartTime(ctx, "BTC.BTC")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedStartTime, maxStart)

	_, err = store.MaxEndTime(ctx, "BTC.BTC")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDepthStore_GetByTimeRangeWindow(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewDepthStore(pool)

	var batch []*domain.DepthSample
	for _, start := range []int64{0, 3600, 7200, 10800} {
		batch = append(batch, testDepthSample("BTC.BTC", start))
	}
	_, err := store.InsertBatch(ctx, batch)
	require.NoError(t, err)

	samples, err := store.GetByTimeRange(ctx, "BTC.BTC", 3600, 10800)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, int64(3600), samples[0].StartTime)
	assert.Equal(t, int64(7200), samples[1].StartTime)

	maxStart, err := store.MaxStartTime(ctx, "BTC.BTC")
	require.NoError(t, err)
	assert.Equal(t, int64(10800), maxStart)

	maxEnd, err := store.MaxEndTime(ctx, "BTC.BTC")
	require.NoError(t, err)
	assert.Equal(t, int64(14400), maxEnd)
}
