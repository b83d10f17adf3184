package postgres

import (
	"context"
	"fmt"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// RunePoolStore implements storage.RunePoolStore using PostgreSQL.
type RunePoolStore struct {
	pool *Pool
}

// NewRunePoolStore creates a new RunePoolStore.
func NewRunePoolStore(pool *Pool) *RunePoolStore {
	return &RunePoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunePoolStore = (*RunePoolStore)(nil)

// InsertBatch upserts samples in one transaction. The unique index on
// start_time makes re-ingestion a no-op; the returned count covers only
// rows actually written.
func (s *RunePoolStore) InsertBatch(ctx context.Context, samples []*domain.RunePoolSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO rune_pool_history (count, units, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (start_time) DO NOTHING
	`

	inserted := 0
	for _, sample := range samples {
		tag, err := tx.Exec(ctx, query,
			sample.Count,
			sample.Units,
			sample.StartTime,
			sample.EndTime,
		)
		if err != nil {
			return 0, fmt.Errorf("insert rune pool sample: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

// MaxStartTime returns the newest stored start_time, or
// domain.FeedStartTime when the table is empty.
func (s *RunePoolStore) MaxStartTime(ctx context.Context) (int64, error) {
	query := `SELECT start_time FROM rune_pool_history ORDER BY start_time DESC LIMIT 1`

	var startTime int64
	err := s.pool.QueryRow(ctx, query).Scan(&startTime)
	if err != nil {
		if isNotFoundError(err) {
			return domain.FeedStartTime, nil
		}
		return 0, fmt.Errorf("max rune pool start_time: %w", err)
	}
	return startTime, nil
}

// MaxEndTime returns the newest stored end_time, or storage.ErrNotFound
// when the table is empty.
func (s *RunePoolStore) MaxEndTime(ctx context.Context) (int64, error) {
	query := `SELECT end_time FROM rune_pool_history ORDER BY end_time DESC LIMIT 1`

	var endTime int64
	err := s.pool.QueryRow(ctx, query).Scan(&endTime)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("max rune pool end_time: %w", err)
	}
	return endTime, nil
}

// GetByTimeRange retrieves samples with start_time >= from and, when
// to > 0, end_time <= to, ordered by end_time ASC.
func (s *RunePoolStore) GetByTimeRange(ctx context.Context, from, to int64) ([]*domain.RunePoolSample, error) {
	query := `
		SELECT id, count, units, start_time, end_time
		FROM rune_pool_history
		WHERE start_time >= $1
		  AND ($2 = 0 OR end_time <= $2)
		ORDER BY end_time ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get rune pool samples by time range: %w", err)
	}
	defer rows.Close()

	var samples []*domain.RunePoolSample
	for rows.Next() {
		var sample domain.RunePoolSample

		err := rows.Scan(
			&sample.ID,
			&sample.Count,
			&sample.Units,
			&sample.StartTime,
			&sample.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rune pool row: %w", err)
		}

		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rune pool rows: %w", err)
	}

	return samples, nil
}
