package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// EarningStore implements storage.EarningStore using PostgreSQL.
type EarningStore struct {
	pool *Pool
}

// NewEarningStore creates a new EarningStore.
func NewEarningStore(pool *Pool) *EarningStore {
	return &EarningStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EarningStore = (*EarningStore)(nil)

// InsertWindow writes the summary row for a window and its per-pool
// samples in one transaction. The summary row must exist before the
// samples because they reference its id. Re-ingesting a window reuses
// the existing summary and skips samples already present; the returned
// count covers only pool samples actually written.
func (s *EarningStore) InsertWindow(ctx context.Context, summary *domain.EarningsSummary, pools []*domain.EarningSample) (int, error) {
	if summary == nil {
		return 0, storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	summaryQuery := `
		INSERT INTO earnings_summary (
			avg_node_count, block_rewards, bonding_earnings, earnings,
			liquidity_earnings, liquidity_fees, rune_price_usd,
			start_time, end_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (start_time) DO NOTHING
		RETURNING id
	`

	err = tx.QueryRow(ctx, summaryQuery,
		summary.AvgNodeCount,
		summary.BlockRewards,
		summary.BondingEarnings,
		summary.Earnings,
		summary.LiquidityEarnings,
		summary.LiquidityFees,
		summary.RunePriceUSD,
		summary.StartTime,
		summary.EndTime,
	).Scan(&summary.ID)
	if isNotFoundError(err) {
		// Conflict: the window's summary already exists, reuse its id.
		err = tx.QueryRow(ctx,
			`SELECT id FROM earnings_summary WHERE start_time = $1`,
			summary.StartTime,
		).Scan(&summary.ID)
	}
	if err != nil {
		return 0, fmt.Errorf("insert earnings summary: %w", err)
	}

	sampleQuery := `
		INSERT INTO earnings (
			pool, asset_liquidity_fees, earnings, rewards,
			rune_liquidity_fees, saver_earnings, total_liquidity_fees_rune,
			summary_id, start_time, end_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (pool, start_time) DO NOTHING
	`

	inserted := 0
	for _, sample := range pools {
		sample.SummaryID = summary.ID
		tag, err := tx.Exec(ctx, sampleQuery,
			sample.Pool,
			sample.AssetLiquidityFees,
			sample.Earnings,
			sample.Rewards,
			sample.RuneLiquidityFees,
			sample.SaverEarnings,
			sample.TotalLiquidityFeesRune,
			sample.SummaryID,
			sample.StartTime,
			sample.EndTime,
		)
		if err != nil {
			return 0, fmt.Errorf("insert earning sample: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		// A concurrent writer can land the same window between our
		// conflict check and commit.
		if isDuplicateKeyError(err) {
			return 0, storage.ErrDuplicateKey
		}
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

// MaxStartTime returns the newest stored summary start_time, or
// domain.FeedStartTime when the table is empty.
func (s *EarningStore) MaxStartTime(ctx context.Context) (int64, error) {
	query := `SELECT start_time FROM earnings_summary ORDER BY start_time DESC LIMIT 1`

	var startTime int64
	err := s.pool.QueryRow(ctx, query).Scan(&startTime)
	if err != nil {
		if isNotFoundError(err) {
			return domain.FeedStartTime, nil
		}
		return 0, fmt.Errorf("max earnings start_time: %w", err)
	}
	return startTime, nil
}

// MaxEndTime returns the newest stored summary end_time, or
// storage.ErrNotFound when the table is empty.
func (s *EarningStore) MaxEndTime(ctx context.Context) (int64, error) {
	query := `SELECT end_time FROM earnings_summary ORDER BY end_time DESC LIMIT 1`

	var endTime int64
	err := s.pool.QueryRow(ctx, query).Scan(&endTime)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("max earnings end_time: %w", err)
	}
	return endTime, nil
}

// GetByTimeRange retrieves per-pool samples with start_time >= from
// and, when to > 0, end_time <= to, ordered by end_time ASC. An empty
// pool matches all pools.
func (s *EarningStore) GetByTimeRange(ctx context.Context, pool string, from, to int64) ([]*domain.EarningSample, error) {
	query := `
		SELECT id, pool, asset_liquidity_fees, earnings, rewards,
		       rune_liquidity_fees, saver_earnings, total_liquidity_fees_rune,
		       summary_id, start_time, end_time
		FROM earnings
		WHERE ($1 = '' OR pool = $1)
		  AND start_time >= $2
		  AND ($3 = 0 OR end_time <= $3)
		ORDER BY end_time ASC, pool ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, pool, from, to)
	if err != nil {
		return nil, fmt.Errorf("get earning samples by time range: %w", err)
	}
	defer rows.Close()

	return scanEarningSamples(rows)
}

// GetSummaries retrieves the summary rows for the given ids, keyed by
// id. Unknown ids are omitted from the result.
func (s *EarningStore) GetSummaries(ctx context.Context, ids []int64) (map[int64]*domain.EarningsSummary, error) {
	summaries := make(map[int64]*domain.EarningsSummary)
	if len(ids) == 0 {
		return summaries, nil
	}

	query := `
		SELECT id, avg_node_count, block_rewards, bonding_earnings, earnings,
		       liquidity_earnings, liquidity_fees, rune_price_usd,
		       start_time, end_time
		FROM earnings_summary
		WHERE id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get earnings summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var summary domain.EarningsSummary

		err := rows.Scan(
			&summary.ID,
			&summary.AvgNodeCount,
			&summary.BlockRewards,
			&summary.BondingEarnings,
			&summary.Earnings,
			&summary.LiquidityEarnings,
			&summary.LiquidityFees,
			&summary.RunePriceUSD,
			&summary.StartTime,
			&summary.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan earnings summary row: %w", err)
		}

		summaries[summary.ID] = &summary
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate earnings summary rows: %w", err)
	}

	return summaries, nil
}

// scanEarningSamples scans multiple rows into a slice of EarningSample.
func scanEarningSamples(rows pgx.Rows) ([]*domain.EarningSample, error) {
	var samples []*domain.EarningSample

	for rows.Next() {
		var sample domain.EarningSample

		err := rows.Scan(
			&sample.ID,
			&sample.Pool,
			&sample.AssetLiquidityFees,
			&sample.Earnings,
			&sample.Rewards,
			&sample.RuneLiquidityFees,
			&sample.SaverEarnings,
			&sample.TotalLiquidityFeesRune,
			&sample.SummaryID,
			&sample.StartTime,
			&sample.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan earning row: %w", err)
		}

		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate earning rows: %w", err)
	}

	return samples, nil
}
