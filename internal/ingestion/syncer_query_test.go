package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/interval"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/query"
)

// TestBackfillThenQueryReturnsLatestSample runs the whole replication
// path against one set of stores: a cold backfill from a stub feed,
// then a resampled read of what landed.
func TestBackfillThenQueryReturnsLatestSample(t *testing.T) {
	base := domain.FeedStartTime
	now := base + 3*3600

	sampleAt := func(start int64, luvi float64) *domain.DepthSample {
		return &domain.DepthSample{
			Pool:      "BTC.BTC",
			Luvi:      luvi,
			StartTime: start,
			EndTime:   start + domain.BaseGranularity,
		}
	}
	source := &stubSource{
		depths: []*domain.DepthSample{
			sampleAt(base, 0.1),
			sampleAt(base+3600, 0.2),
			sampleAt(base+7200, 0.3),
		},
	}
	env := newTestEnv(source, now)

	result, err := env.syncer.Backfill(context.Background(), domain.FamilyDepths)
	require.NoError(t, err)
	require.Equal(t, 3, result.SamplesInserted)
	require.Equal(t, 0, result.Errors)

	engine := query.NewEngine(query.EngineOptions{
		DepthStore:    env.depths,
		SwapStore:     env.swaps,
		EarningStore:  env.earnings,
		RunePoolStore: env.runePool,
	})

	resp, err := engine.DepthHistory(context.Background(), query.Params{
		Interval:  interval.Day,
		To:        now,
		SortOrder: 1,
	})
	require.NoError(t, err)

	// All three hourly samples share one day bucket; its representative
	// is the newest sample the backfill wrote.
	require.Len(t, resp.Intervals, 1)
	in := resp.Intervals[0]
	day := interval.Seconds(interval.Day)
	assert.Equal(t, day, in.EndTime-in.StartTime)
	assert.LessOrEqual(t, in.StartTime, base)
	assert.GreaterOrEqual(t, in.EndTime, now)
	assert.InDelta(t, 0.3, in.Luvi, 1e-9)
	assert.Equal(t, in.StartTime, resp.Meta.StartTime)
	assert.Equal(t, in.EndTime, resp.Meta.EndTime)
}
