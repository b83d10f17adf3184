package ingestion

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage/memory"
)

// stubSource serves canned history windows. Fetches return every sample
// at or after the cursor, up to count, plus the end time of the last
// one as the next cursor.
type stubSource struct {
	depths   []*domain.DepthSample
	swaps    []*domain.SwapSample
	earnings []*domain.EarningsWindow
	runePool []*domain.RunePoolSample
	failAt   map[int64]bool
}

func (s *stubSource) FetchDepths(_ context.Context, pool, _ string, from, count int64) ([]*domain.DepthSample, int64, error) {
	if s.failAt[from] {
		return nil, 0, errors.New("upstream unavailable")
	}
	var out []*domain.DepthSample
	end := from
	for _, d := range s.depths {
		if d.StartTime >= from && int64(len(out)) < count {
			out = append(out, d)
			if d.EndTime > end {
				end = d.EndTime
			}
		}
	}
	return out, end, nil
}

func (s *stubSource) FetchSwaps(_ context.Context, pool, _ string, from, count int64) ([]*domain.SwapSample, int64, error) {
	var out []*domain.SwapSample
	end := from
	for _, d := range s.swaps {
		if d.StartTime >= from && int64(len(out)) < count {
			out = append(out, d)
			if d.EndTime > end {
				end = d.EndTime
			}
		}
	}
	return out, end, nil
}

func (s *stubSource) FetchEarnings(_ context.Context, _ string, from, count int64) ([]*domain.EarningsWindow, int64, error) {
	var out []*domain.EarningsWindow
	end := from
	for _, w := range s.earnings {
		if w.Summary.StartTime >= from && int64(len(out)) < count {
			out = append(out, w)
			if w.Summary.EndTime > end {
				end = w.Summary.EndTime
			}
		}
	}
	return out, end, nil
}

func (s *stubSource) FetchRunePool(_ context.Context, _ string, from, count int64) ([]*domain.RunePoolSample, int64, error) {
	var out []*domain.RunePoolSample
	end := from
	for _, d := range s.runePool {
		if d.StartTime >= from && int64(len(out)) < count {
			out = append(out, d)
			if d.EndTime > end {
				end = d.EndTime
			}
		}
	}
	return out, end, nil
}

func depthAt(start int64) *domain.DepthSample {
	return &domain.DepthSample{
		Pool:      "BTC.BTC",
		Luvi:      0.001,
		StartTime: start,
		EndTime:   start + domain.BaseGranularity,
	}
}

type testEnv struct {
	syncer   *Syncer
	depths   *memory.DepthStore
	swaps    *memory.SwapStore
	earnings *memory.EarningStore
	runePool *memory.RunePoolStore
}

func newTestEnv(source Source, now int64) *testEnv {
	env := &testEnv{
		depths:   memory.NewDepthStore(),
		swaps:    memory.NewSwapStore(),
		earnings: memory.NewEarningStore(),
		runePool: memory.NewRunePoolStore(),
	}
	env.syncer = NewSyncer(Options{
		Source:        source,
		DepthStore:    env.depths,
		SwapStore:     env.swaps,
		EarningStore:  env.earnings,
		RunePoolStore: env.runePool,
		Now:           func() time.Time { return time.Unix(now, 0) },
		Logger:        log.New(log.Writer(), "[test] ", 0),
	})
	return env
}

func TestSyncerBackfillFromEmptyStore(t *testing.T) {
	base := domain.FeedStartTime
	source := &stubSource{
		depths: []*domain.DepthSample{
			depthAt(base),
			depthAt(base + 3600),
			depthAt(base + 7200),
		},
	}
	env := newTestEnv(source, base+3*3600)

	result, err := env.syncer.Backfill(context.Background(), domain.FamilyDepths)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SamplesInserted)
	assert.Equal(t, 0, result.Errors)

	samples, err := env.depths.GetByTimeRange(context.Background(), "BTC.BTC", 0, 0)
	require.NoError(t, err)
	assert.Len(t, samples, 3)
}

func TestSyncerBackfillResumesAtNewestWindow(t *testing.T) {
	base := domain.FeedStartTime
	source := &stubSource{
		depths: []*domain.DepthSample{
			depthAt(base),
			depthAt(base + 3600),
			depthAt(base + 7200),
		},
	}
	env := newTestEnv(source, base+3*3600)

	_, err := env.syncer.Backfill(context.Background(), domain.FamilyDepths)
	require.NoError(t, err)

	// Second run resumes at the newest stored window. It re-fetches that
	// window but the store skips it, so nothing new lands.
	result, err := env.syncer.Backfill(context.Background(), domain.FamilyDepths)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SamplesInserted)
	assert.GreaterOrEqual(t, result.DuplicatesSkipped, 1)

	samples, err := env.depths.GetByTimeRange(context.Background(), "BTC.BTC", 0, 0)
	require.NoError(t, err)
	assert.Len(t, samples, 3)
}

func TestSyncerSkipsPoisonedWindow(t *testing.T) {
	base := domain.FeedStartTime
	source := &stubSource{
		depths: []*domain.DepthSample{
			depthAt(base + 400*3600),
		},
		failAt: map[int64]bool{base: true},
	}
	env := newTestEnv(source, base+401*3600)

	result, err := env.syncer.Backfill(context.Background(), domain.FamilyDepths)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 1, result.SamplesInserted)
}

func TestSyncerSingleFlight(t *testing.T) {
	base := domain.FeedStartTime
	env := newTestEnv(&stubSource{}, base+3600)

	require.True(t, env.syncer.acquire(domain.FamilyDepths))
	defer env.syncer.release(domain.FamilyDepths)

	_, err := env.syncer.Backfill(context.Background(), domain.FamilyDepths)
	assert.ErrorIs(t, err, ErrSyncInFlight)

	// Other families are unaffected.
	_, err = env.syncer.Backfill(context.Background(), domain.FamilySwaps)
	assert.NoError(t, err)
}

func TestSyncerEarningsBackfillLinksSummaries(t *testing.T) {
	base := domain.FeedStartTime
	source := &stubSource{
		earnings: []*domain.EarningsWindow{
			{
				Summary: &domain.EarningsSummary{Earnings: 100, StartTime: base, EndTime: base + 3600},
				Pools: []*domain.EarningSample{
					{Pool: "BTC.BTC", Earnings: 40, StartTime: base, EndTime: base + 3600},
					{Pool: "ETH.ETH", Earnings: 60, StartTime: base, EndTime: base + 3600},
				},
			},
		},
	}
	env := newTestEnv(source, base+3600)

	result, err := env.syncer.Backfill(context.Background(), domain.FamilyEarnings)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SamplesInserted)

	samples, err := env.earnings.GetByTimeRange(context.Background(), "", 0, 0)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	for _, sample := range samples {
		assert.NotZero(t, sample.SummaryID)
	}
}

func TestSyncerSyncAll(t *testing.T) {
	base := domain.FeedStartTime
	source := &stubSource{
		depths:   []*domain.DepthSample{depthAt(base)},
		runePool: []*domain.RunePoolSample{{Count: 1, Units: 2, StartTime: base, EndTime: base + 3600}},
	}
	env := newTestEnv(source, base+3600)

	results, err := env.syncer.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, len(domain.Families))
}
