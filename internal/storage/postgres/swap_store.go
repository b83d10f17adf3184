package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// SwapStore implements storage.SwapStore using PostgreSQL.
type SwapStore struct {
	pool *Pool
}

// NewSwapStore creates a new SwapStore.
func NewSwapStore(pool *Pool) *SwapStore {
	return &SwapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapStore = (*SwapStore)(nil)

const swapColumns = `
	pool, average_slip,
	from_trade_average_slip, from_trade_count, from_trade_fees, from_trade_volume, from_trade_volume_usd,
	rune_price_usd,
	synth_mint_average_slip, synth_mint_count, synth_mint_fees, synth_mint_volume, synth_mint_volume_usd,
	synth_redeem_average_slip, synth_redeem_count, synth_redeem_fees, synth_redeem_volume, synth_redeem_volume_usd,
	to_asset_average_slip, to_asset_count, to_asset_fees, to_asset_volume, to_asset_volume_usd,
	to_rune_average_slip, to_rune_count, to_rune_fees, to_rune_volume, to_rune_volume_usd,
	to_trade_average_slip, to_trade_count, to_trade_fees, to_trade_volume, to_trade_volume_usd,
	total_count, total_fees, total_volume, total_volume_usd,
	start_time, end_time`

// InsertBatch upserts samples in one transaction. The unique index on
// (pool, start_time) makes re-ingestion a no-op; the returned count
// covers only rows actually written.
func (s *SwapStore) InsertBatch(ctx context.Context, samples []*domain.SwapSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO swap_history (` + swapColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39
		)
		ON CONFLICT (pool, start_time) DO NOTHING
	`

	inserted := 0
	for _, sample := range samples {
		tag, err := tx.Exec(ctx, query,
			sample.Pool, sample.AverageSlip,
			sample.FromTradeAverageSlip, sample.FromTradeCount, sample.FromTradeFees, sample.FromTradeVolume, sample.FromTradeVolumeUSD,
			sample.RunePriceUSD,
			sample.SynthMintAverageSlip, sample.SynthMintCount, sample.SynthMintFees, sample.SynthMintVolume, sample.SynthMintVolumeUSD,
			sample.SynthRedeemAverageSlip, sample.SynthRedeemCount, sample.SynthRedeemFees, sample.SynthRedeemVolume, sample.SynthRedeemVolumeUSD,
			sample.ToAssetAverageSlip, sample.ToAssetCount, sample.ToAssetFees, sample.ToAssetVolume, sample.ToAssetVolumeUSD,
			sample.ToRuneAverageSlip, sample.ToRuneCount, sample.ToRuneFees, sample.ToRuneVolume, sample.ToRuneVolumeUSD,
			sample.ToTradeAverageSlip, sample.ToTradeCount, sample.ToTradeFees, sample.ToTradeVolume, sample.ToTradeVolumeUSD,
			sample.TotalCount, sample.TotalFees, sample.TotalVolume, sample.TotalVolumeUSD,
			sample.StartTime, sample.EndTime,
		)
		if err != nil {
			return 0, fmt.Errorf("insert swap sample: %w", err)
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
func (s *SwapStore) MaxStartTime(ctx context.Context, pool string) (int64, error) {
	query := `
		SELECT start_time FROM swap_history
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
		return 0, fmt.Errorf("max swap start_time: %w", err)
	}
	return startTime, nil
}

// MaxEndTime returns the newest stored end_time for a pool, or
// storage.ErrNotFound when the table is empty for that pool.
func (s *SwapStore) MaxEndTime(ctx context.Context, pool string) (int64, error) {
	query := `
		SELECT end_time FROM swap_history
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
		return 0, fmt.Errorf("max swap end_time: %w", err)
	}
	return endTime, nil
}

// GetByTimeRange retrieves samples with start_time >= from and, when
// to > 0, end_time <= to, ordered by end_time ASC.
func (s *SwapStore) GetByTimeRange(ctx context.Context, pool string, from, to int64) ([]*domain.SwapSample, error) {
	query := `
		SELECT id, ` + swapColumns + `
		FROM swap_history
		WHERE ($1 = '' OR pool = $1)
		  AND start_time >= $2
		  AND ($3 = 0 OR end_time <= $3)
		ORDER BY end_time ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, pool, from, to)
	if err != nil {
		return nil, fmt.Errorf("get swap samples by time range: %w", err)
	}
	defer rows.Close()

	return scanSwapSamples(rows)
}

// scanSwapSamples scans multiple rows into a slice of SwapSample.
func scanSwapSamples(rows pgx.Rows) ([]*domain.SwapSample, error) {
	var samples []*domain.SwapSample

	for rows.Next() {
		var sample domain.SwapSample

		err := rows.Scan(
			&sample.ID,
			&sample.Pool, &sample.AverageSlip,
			&sample.FromTradeAverageSlip, &sample.FromTradeCount, &sample.FromTradeFees, &sample.FromTradeVolume, &sample.FromTradeVolumeUSD,
			&sample.RunePriceUSD,
			&sample.SynthMintAverageSlip, &sample.SynthMintCount, &sample.SynthMintFees, &sample.SynthMintVolume, &sample.SynthMintVolumeUSD,
			&sample.SynthRedeemAverageSlip, &sample.SynthRedeemCount, &sample.SynthRedeemFees, &sample.SynthRedeemVolume, &sample.SynthRedeemVolumeUSD,
			&sample.ToAssetAverageSlip, &sample.ToAssetCount, &sample.ToAssetFees, &sample.ToAssetVolume, &sample.ToAssetVolumeUSD,
			&sample.ToRuneAverageSlip, &sample.ToRuneCount, &sample.ToRuneFees, &sample.ToRuneVolume, &sample.ToRuneVolumeUSD,
			&sample.ToTradeAverageSlip, &sample.ToTradeCount, &sample.ToTradeFees, &sample.ToTradeVolume, &sample.ToTradeVolumeUSD,
			&sample.TotalCount, &sample.TotalFees, &sample.TotalVolume, &sample.TotalVolumeUSD,
			&sample.StartTime, &sample.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swap row: %w", err)
		}

		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap rows: %w", err)
	}

	return samples, nil
}
