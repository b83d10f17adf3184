package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// trackedPool is the only pool replicated for depths and swaps.
const trackedPool = "BTC.BTC"

// Engine answers history queries by resampling stored hourly samples
// into caller-chosen bucket widths. All grouping, sorting, and paging
// happens here; the stores only serve raw ascending time ranges.
type Engine struct {
	depths   storage.DepthStore
	swaps    storage.SwapStore
	earnings storage.EarningStore
	runePool storage.RunePoolStore
	now      func() time.Time
}

// EngineOptions contains the stores an Engine reads from.
type EngineOptions struct {
	DepthStore    storage.DepthStore
	SwapStore     storage.SwapStore
	EarningStore  storage.EarningStore
	RunePoolStore storage.RunePoolStore
	Now           func() time.Time
}

// NewEngine creates a query engine.
func NewEngine(opts EngineOptions) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		depths:   opts.DepthStore,
		swaps:    opts.SwapStore,
		earnings: opts.EarningStore,
		runePool: opts.RunePoolStore,
		now:      now,
	}
}

// lookback resolves the raw-read lower bound. An explicit from wins;
// otherwise the window is anchored at to, or at the newest stored
// end_time (the wall clock when nothing is stored yet), and reaches
// back count buckets from there.
func (e *Engine) lookback(ctx context.Context, n normalized, maxEnd func(context.Context) (int64, error)) (int64, error) {
	if n.From != 0 {
		return n.From, nil
	}

	anchor := n.To
	if anchor == 0 {
		end, err := maxEnd(ctx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			anchor = e.now().Unix()
		case err != nil:
			return 0, fmt.Errorf("resolve window anchor: %w", err)
		default:
			anchor = end
		}
	}
	return anchor - n.Count*n.Width, nil
}

// trackedPoolOnly resolves the pool filter for endpoints that replicate
// a single pool. Empty defaults to the tracked pool; anything else must
// match it.
func trackedPoolOnly(pool string) (string, error) {
	if pool == "" {
		return trackedPool, nil
	}
	if pool != trackedPool {
		return "", fmt.Errorf("%w: pool %q is not tracked", ErrInvalidInput, pool)
	}
	return pool, nil
}

// DepthHistory serves resampled depth/price history for the tracked pool.
func (e *Engine) DepthHistory(ctx context.Context, p Params) (*DepthHistoryResponse, error) {
	n, err := p.normalize()
	if err != nil {
		return nil, err
	}
	pool, err := trackedPoolOnly(n.Pool)
	if err != nil {
		return nil, err
	}

	from, err := e.lookback(ctx, n, func(ctx context.Context) (int64, error) {
		return e.depths.MaxEndTime(ctx, pool)
	})
	if err != nil {
		return nil, err
	}

	samples, err := e.depths.GetByTimeRange(ctx, pool, from, n.To)
	if err != nil {
		return nil, fmt.Errorf("read depth history: %w", err)
	}

	buckets := resample(samples, n.Width, func(s *domain.DepthSample) int64 { return s.EndTime })
	sortBuckets(buckets, n.SortBy, n.Ascending)
	page := paginate(buckets, n.Skip, n.Limit)
	if len(page) == 0 {
		return nil, fmt.Errorf("%w: no depth data for page %d", ErrInvalidInput, n.Page)
	}

	earliest, latest := pageBounds(page)
	first, last := earliest.Rep, latest.Rep

	resp := &DepthHistoryResponse{
		Meta: DepthHistoryMeta{
			EndAssetDepth:    last.AssetDepth,
			EndLPUnits:       last.Units,
			EndMemberCount:   last.MembersCount,
			EndRuneDepth:     last.RuneDepth,
			EndSynthUnits:    last.SynthUnits,
			EndTime:          latest.End,
			LuviIncrease:     last.Luvi - first.Luvi,
			PriceShiftLoss:   first.AssetPrice - last.AssetPrice,
			StartAssetDepth:  first.AssetDepth,
			StartLPUnits:     first.Units,
			StartMemberCount: first.MembersCount,
			StartRuneDepth:   first.RuneDepth,
			StartSynthUnits:  first.SynthUnits,
			StartTime:        earliest.Start,
		},
		Intervals: make([]DepthInterval, 0, len(page)),
	}

	for _, b := range page {
		resp.Intervals = append(resp.Intervals, DepthInterval{
			AssetDepth:     b.Rep.AssetDepth,
			AssetPrice:     b.Rep.AssetPrice,
			AssetPriceUSD:  b.Rep.AssetPriceUSD,
			LiquidityUnits: b.Rep.LiquidityUnits,
			Luvi:           b.Rep.Luvi,
			MembersCount:   b.Rep.MembersCount,
			RuneDepth:      b.Rep.RuneDepth,
			SynthSupply:    b.Rep.SynthSupply,
			SynthUnits:     b.Rep.SynthUnits,
			Units:          b.Rep.Units,
			StartTime:      b.Start,
			EndTime:        b.End,
		})
	}
	return resp, nil
}

// SwapHistory serves resampled swap history for the tracked pool.
func (e *Engine) SwapHistory(ctx context.Context, p Params) (*SwapHistoryResponse, error) {
	n, err := p.normalize()
	if err != nil {
		return nil, err
	}
	pool, err := trackedPoolOnly(n.Pool)
	if err != nil {
		return nil, err
	}

	from, err := e.lookback(ctx, n, func(ctx context.Context) (int64, error) {
		return e.swaps.MaxEndTime(ctx, pool)
	})
	if err != nil {
		return nil, err
	}

	samples, err := e.swaps.GetByTimeRange(ctx, pool, from, n.To)
	if err != nil {
		return nil, fmt.Errorf("read swap history: %w", err)
	}

	buckets := resample(samples, n.Width, func(s *domain.SwapSample) int64 { return s.EndTime })
	sortBuckets(buckets, n.SortBy, n.Ascending)
	page := paginate(buckets, n.Skip, n.Limit)
	if len(page) == 0 {
		return nil, fmt.Errorf("%w: no swap data for page %d", ErrInvalidInput, n.Page)
	}

	earliest, latest := pageBounds(page)

	// The meta block is the latest bucket widened to span the whole page.
	meta := swapInterval(latest)
	meta.StartTime = earliest.Start

	resp := &SwapHistoryResponse{
		Meta:      meta,
		Intervals: make([]SwapInterval, 0, len(page)),
	}
	for _, b := range page {
		resp.Intervals = append(resp.Intervals, swapInterval(b))
	}
	return resp, nil
}

func swapInterval(b bucket[*domain.SwapSample]) SwapInterval {
	s := b.Rep
	return SwapInterval{
		AverageSlip:            s.AverageSlip,
		FromTradeAverageSlip:   s.FromTradeAverageSlip,
		FromTradeCount:         s.FromTradeCount,
		FromTradeFees:          s.FromTradeFees,
		FromTradeVolume:        s.FromTradeVolume,
		FromTradeVolumeUSD:     s.FromTradeVolumeUSD,
		RunePriceUSD:           s.RunePriceUSD,
		SynthMintAverageSlip:   s.SynthMintAverageSlip,
		SynthMintCount:         s.SynthMintCount,
		SynthMintFees:          s.SynthMintFees,
		SynthMintVolume:        s.SynthMintVolume,
		SynthMintVolumeUSD:     s.SynthMintVolumeUSD,
		SynthRedeemAverageSlip: s.SynthRedeemAverageSlip,
		SynthRedeemCount:       s.SynthRedeemCount,
		SynthRedeemFees:        s.SynthRedeemFees,
		SynthRedeemVolume:      s.SynthRedeemVolume,
		SynthRedeemVolumeUSD:   s.SynthRedeemVolumeUSD,
		ToAssetAverageSlip:     s.ToAssetAverageSlip,
		ToAssetCount:           s.ToAssetCount,
		ToAssetFees:            s.ToAssetFees,
		ToAssetVolume:          s.ToAssetVolume,
		ToAssetVolumeUSD:       s.ToAssetVolumeUSD,
		ToRuneAverageSlip:      s.ToRuneAverageSlip,
		ToRuneCount:            s.ToRuneCount,
		ToRuneFees:             s.ToRuneFees,
		ToRuneVolume:           s.ToRuneVolume,
		ToRuneVolumeUSD:        s.ToRuneVolumeUSD,
		ToTradeAverageSlip:     s.ToTradeAverageSlip,
		ToTradeCount:           s.ToTradeCount,
		ToTradeFees:            s.ToTradeFees,
		ToTradeVolume:          s.ToTradeVolume,
		ToTradeVolumeUSD:       s.ToTradeVolumeUSD,
		TotalCount:             s.TotalCount,
		TotalFees:              s.TotalFees,
		TotalVolume:            s.TotalVolume,
		TotalVolumeUSD:         s.TotalVolumeUSD,
		StartTime:              b.Start,
		EndTime:                b.End,
	}
}

// earningsBucket aggregates one resampled earnings interval: the newest
// sample per pool plus the newest sample overall, whose summary row
// describes the bucket.
type earningsBucket struct {
	reps   map[string]*domain.EarningSample
	latest *domain.EarningSample
}

// EarningsHistory serves resampled network earnings. Unlike depths and
// swaps, any pool filter is accepted.
func (e *Engine) EarningsHistory(ctx context.Context, p Params) (*EarningsHistoryResponse, error) {
	n, err := p.normalize()
	if err != nil {
		return nil, err
	}

	from, err := e.lookback(ctx, n, e.earnings.MaxEndTime)
	if err != nil {
		return nil, err
	}

	samples, err := e.earnings.GetByTimeRange(ctx, n.Pool, from, n.To)
	if err != nil {
		return nil, fmt.Errorf("read earnings history: %w", err)
	}

	// Group by bucket, keeping the newest sample per pool. Samples
	// arrive in end-time ascending order, so overwriting wins.
	index := make(map[int64]int)
	var buckets []bucket[*earningsBucket]
	for _, sample := range samples {
		start := bucketStart(sample.EndTime, n.Width)
		i, ok := index[start]
		if !ok {
			i = len(buckets)
			index[start] = i
			buckets = append(buckets, bucket[*earningsBucket]{
				Start: start,
				End:   start + n.Width,
				Rep:   &earningsBucket{reps: make(map[string]*domain.EarningSample)},
			})
		}
		buckets[i].Rep.reps[sample.Pool] = sample
		buckets[i].Rep.latest = sample
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start < buckets[j].Start })

	sortBuckets(buckets, n.SortBy, n.Ascending)
	page := paginate(buckets, n.Skip, n.Limit)
	if len(page) == 0 {
		return nil, fmt.Errorf("%w: no earnings data for page %d", ErrInvalidInput, n.Page)
	}

	summaryIDs := make([]int64, 0, len(page))
	for _, b := range page {
		summaryIDs = append(summaryIDs, b.Rep.latest.SummaryID)
	}
	summaries, err := e.earnings.GetSummaries(ctx, summaryIDs)
	if err != nil {
		return nil, fmt.Errorf("read earnings summaries: %w", err)
	}

	earliest, latest := pageBounds(page)
	resp := &EarningsHistoryResponse{
		Meta: EarningsMeta{
			StartTime: earliest.Start,
			EndTime:   latest.End,
		},
		Intervals: make([]EarningsInterval, 0, len(page)),
	}

	for _, b := range page {
		summary, ok := summaries[b.Rep.latest.SummaryID]
		if !ok {
			return nil, fmt.Errorf("missing earnings summary %d", b.Rep.latest.SummaryID)
		}

		in := EarningsInterval{
			AvgNodeCount:      summary.AvgNodeCount,
			BlockRewards:      summary.BlockRewards,
			BondingEarnings:   summary.BondingEarnings,
			Earnings:          summary.Earnings,
			LiquidityEarnings: summary.LiquidityEarnings,
			LiquidityFees:     summary.LiquidityFees,
			RunePriceUSD:      summary.RunePriceUSD,
			Pools:             make([]EarningsPool, 0, len(b.Rep.reps)),
			StartTime:         b.Start,
			EndTime:           b.End,
		}

		names := make([]string, 0, len(b.Rep.reps))
		for name := range b.Rep.reps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := b.Rep.reps[name]
			in.Pools = append(in.Pools, EarningsPool{
				Pool:                   s.Pool,
				AssetLiquidityFees:     s.AssetLiquidityFees,
				Earnings:               s.Earnings,
				Rewards:                s.Rewards,
				RuneLiquidityFees:      s.RuneLiquidityFees,
				SaverEarnings:          s.SaverEarnings,
				TotalLiquidityFeesRune: s.TotalLiquidityFeesRune,
			})
		}
		resp.Intervals = append(resp.Intervals, in)

		resp.Meta.AvgNodeCount += summary.AvgNodeCount
		resp.Meta.BlockRewards += float64(summary.BlockRewards)
		resp.Meta.BondingEarnings += float64(summary.BondingEarnings)
		resp.Meta.Earnings += float64(summary.Earnings)
		resp.Meta.LiquidityEarnings += float64(summary.LiquidityEarnings)
		resp.Meta.LiquidityFees += float64(summary.LiquidityFees)
		resp.Meta.RunePriceUSD += summary.RunePriceUSD
	}

	// Meta carries the arithmetic mean over the page's buckets.
	count := float64(len(page))
	resp.Meta.AvgNodeCount /= count
	resp.Meta.BlockRewards /= count
	resp.Meta.BondingEarnings /= count
	resp.Meta.Earnings /= count
	resp.Meta.LiquidityEarnings /= count
	resp.Meta.LiquidityFees /= count
	resp.Meta.RunePriceUSD /= count

	return resp, nil
}

// RunePoolHistory serves resampled rune-pool membership history. The
// collection is network-wide, so a pool filter is refused outright.
func (e *Engine) RunePoolHistory(ctx context.Context, p Params) ([]RunePoolInterval, error) {
	if p.Pool != "" {
		return nil, fmt.Errorf("%w: rune pool history has no pool dimension", ErrInvalidInput)
	}

	n, err := p.normalize()
	if err != nil {
		return nil, err
	}

	from, err := e.lookback(ctx, n, e.runePool.MaxEndTime)
	if err != nil {
		return nil, err
	}

	samples, err := e.runePool.GetByTimeRange(ctx, from, n.To)
	if err != nil {
		return nil, fmt.Errorf("read rune pool history: %w", err)
	}

	buckets := resample(samples, n.Width, func(s *domain.RunePoolSample) int64 { return s.EndTime })
	sortBuckets(buckets, n.SortBy, n.Ascending)
	page := paginate(buckets, n.Skip, n.Limit)
	if len(page) == 0 {
		return nil, fmt.Errorf("%w: no rune pool data for page %d", ErrInvalidInput, n.Page)
	}

	intervals := make([]RunePoolInterval, 0, len(page))
	for _, b := range page {
		intervals = append(intervals, RunePoolInterval{
			Count:     b.Rep.Count,
			Units:     b.Rep.Units,
			StartTime: b.Start,
			EndTime:   b.End,
		})
	}
	return intervals, nil
}
