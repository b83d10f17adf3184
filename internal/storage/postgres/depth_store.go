package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// DepthStore implements storage.DepthStore using PostgreSQL.
type DepthStore struct {
	pool *Pool
}

// NewDepthStore creates a new DepthStore.
func NewDepthStore(pool *Pool) *DepthStore {
	return &DepthStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DepthStore = (*DepthStore)(nil)

// InsertBatch upserts samples in one transaction. The unique index on
// (pool, start_time) makes re-ingestion a no-op; the returned count
// covers only rows actually written.
func (s *DepthStore) InsertBatch(ctx context.Context, samples []*domain.DepthSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO depth_history (
			pool, asset_depth, asset_price, asset_price_usd, liquidity_units,
			luvi, members_count, rune_depth, synth_supply, synth_units, units,
			start_time, end_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (pool, start_time) DO NOTHING
	`

	inserted := 0
	for _, sample := range samples {
		tag, err := tx.Exec(ctx, query,
			sample.Pool,
			sample.AssetDepth,
			sample.AssetPrice,
			sample.AssetPriceUSD,
			sample.LiquidityUnits,
			sample.Luvi,
			sample.MembersCount,
			sample.RuneDepth,
			sample.SynthSupply,
			sample.SynthUnits,
			sample.Units,
			sample.StartTime,
			sample.EndTime,
		)
		if err != nil {
			return 0, fmt.Errorf("insert depth sample: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

// MaxStartTime returns the newest stored start_time for a pool, or
// domain.FeedStartTime when the table is empty for that pool.
func (s *DepthStore) MaxStartTime(ctx context.Context, pool string) (int64, error) {
	query := `
		SELECT start_time FROM depth_history
		WHERE ($1 = '' OR pool = $1)
		ORDER BY start_time DESC
		LIMIT 1
	`

	var startTime int64
	err := s.pool.QueryRow(ctx, query, pool).Scan(&startTime)
	if err != nil {
		if isNotFoundError(err) {
			return domain.FeedStartTime, nil
		}
		return 0, fmt.Errorf("max depth start_time: %w", err)
	}
	return startTime, nil
}

// MaxEndTime returns the newest stored end_time for a pool, or
// storage.ErrNotFound when the table is empty for that pool.
func (s *DepthStore) MaxEndTime(ctx context.Context, pool string) (int64, error) {
	query := `
		SELECT end_time FROM depth_history
		WHERE ($1 = '' OR pool = $1)
		ORDER BY end_time DESC
		LIMIT 1
	`

	var endTime int64
	err := s.pool.QueryRow(ctx, query, pool).Scan(&endTime)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("max depth end_time: %w", err)
	}
	return endTime, nil
}

// GetByTimeRange retrieves samples with start_time >= from and, when
// to > 0, end_time <= to, ordered by end_time ASC.
func (s *DepthStore) GetByTimeRange(ctx context.Context, pool string, from, to int64) ([]*domain.DepthSample, error) {
	query := `
		SELECT id, pool, asset_depth, asset_price, asset_price_usd, liquidity_units,
		       luvi, members_count, rune_depth, synth_supply, synth_units, units,
		       start_time, end_time
		FROM depth_history
		WHERE ($1 = '' OR pool = $1)
		  AND start_time >= $2
		  AND ($3 = 0 OR end_time <= $3)
		ORDER BY end_time ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, pool, from, to)
	if err != nil {
		return nil, fmt.Errorf("get depth samples by time range: %w", err)
	}
	defer rows.Close()

	return scanDepthSamples(rows)
}

// scanDepthSamples scans multiple rows into a slice of DepthSample.
func scanDepthSamples(rows pgx.Rows) ([]*domain.DepthSample, error) {
	var samples []*domain.DepthSample

	for rows.Next() {
		var sample domain.DepthSample

		err := rows.Scan(
			&sample.ID,
			&sample.Pool,
			&sample.AssetDepth,
			&sample.AssetPrice,
			&sample.AssetPriceUSD,
			&sample.LiquidityUnits,
			&sample.Luvi,
			&sample.MembersCount,
			&sample.RuneDepth,
			&sample.SynthSupply,
			&sample.SynthUnits,
			&sample.Units,
			&sample.StartTime,
			&sample.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan depth row: %w", err)
		}

		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate depth rows: %w", err)
	}

	return samples, nil
}
