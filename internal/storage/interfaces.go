package storage

import (
	"context"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
)

// Sample stores are append-only. InsertBatch is an idempotent upsert
// keyed on (pool, start_time): a window re-ingested after an upstream
// retry is skipped, not duplicated, and the returned count covers only
// rows actually written.
//
// GetByTimeRange is the lowest-level read primitive the query engine
// composes: raw base-granularity samples with start_time >= from and,
// when to > 0, end_time <= to, ordered by end_time ascending.
//
// MaxStartTime returns domain.FeedStartTime when the collection is empty
// so a cold backfill resumes from the upstream feed's documented start.
// MaxEndTime returns ErrNotFound when empty; the query engine supplies
// its own clock-based anchor in that case.

// DepthStore provides access to depth_history storage.
type DepthStore interface {
	InsertBatch(ctx context.Context, samples []*domain.DepthSample) (int, error)
	MaxStartTime(ctx context.Context, pool string) (int64, error)
	MaxEndTime(ctx context.Context, pool string) (int64, error)
	GetByTimeRange(ctx context.Context, pool string, from, to int64) ([]*domain.DepthSample, error)
}

// SwapStore provides access to swap_history storage.
type SwapStore interface {
	InsertBatch(ctx context.Context, samples []*domain.SwapSample) (int, error)
	MaxStartTime(ctx context.Context, pool string) (int64, error)
	MaxEndTime(ctx context.Context, pool string) (int64, error)
	GetByTimeRange(ctx context.Context, pool string, from, to int64) ([]*domain.SwapSample, error)
}

// EarningStore provides access to earnings and earnings_summary storage.
type EarningStore interface {
	// InsertWindow persists one window: the summary row first, then the
	// per-pool samples referencing its generated id. A summary write
	// failure aborts the window so no sample can dangle. Duplicate pool
	// samples within an already-ingested window are skipped.
	InsertWindow(ctx context.Context, summary *domain.EarningsSummary, pools []*domain.EarningSample) (int, error)

	MaxStartTime(ctx context.Context) (int64, error)
	MaxEndTime(ctx context.Context) (int64, error)

	// GetByTimeRange retrieves per-pool samples; pool == "" matches all pools.
	GetByTimeRange(ctx context.Context, pool string, from, to int64) ([]*domain.EarningSample, error)

	// GetSummaries resolves summary rows by id for the read-path join.
	GetSummaries(ctx context.Context, ids []int64) (map[int64]*domain.EarningsSummary, error)
}

// RunePoolStore provides access to rune_pool_history storage.
type RunePoolStore interface {
	InsertBatch(ctx context.Context, samples []*domain.RunePoolSample) (int, error)
	MaxStartTime(ctx context.Context) (int64, error)
	MaxEndTime(ctx context.Context) (int64, error)
	GetByTimeRange(ctx context.Context, from, to int64) ([]*domain.RunePoolSample, error)
}
