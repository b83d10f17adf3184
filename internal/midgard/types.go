package midgard

import "github.com/svssathvik7/crypto-token-metrics-api/internal/domain"

// Wire types for the upstream history endpoints. Every numeric value
// arrives as a JSON string and is parsed into the domain types here.

type wireMeta struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type depthResponse struct {
	Intervals []depthInterval `json:"intervals"`
	Meta      wireMeta        `json:"meta"`
}

type depthInterval struct {
	AssetDepth     string `json:"assetDepth"`
	AssetPrice     string `json:"assetPrice"`
	AssetPriceUSD  string `json:"assetPriceUSD"`
	EndTime        string `json:"endTime"`
	LiquidityUnits string `json:"liquidityUnits"`
	Luvi           string `json:"luvi"`
	MembersCount   string `json:"membersCount"`
	RuneDepth      string `json:"runeDepth"`
	StartTime      string `json:"startTime"`
	SynthSupply    string `json:"synthSupply"`
	SynthUnits     string `json:"synthUnits"`
	Units          string `json:"units"`
}

func (in depthInterval) toSample(pool string) (*domain.DepthSample, error) {
	var p fieldParser
	sample := &domain.DepthSample{
		Pool:           pool,
		AssetDepth:     p.i64("assetDepth", in.AssetDepth),
		AssetPrice:     p.f64("assetPrice", in.AssetPrice),
		AssetPriceUSD:  p.f64("assetPriceUSD", in.AssetPriceUSD),
		LiquidityUnits: p.i64("liquidityUnits", in.LiquidityUnits),
		Luvi:           p.f64("luvi", in.Luvi),
		MembersCount:   p.i64("membersCount", in.MembersCount),
		RuneDepth:      p.i64("runeDepth", in.RuneDepth),
		SynthSupply:    p.i64("synthSupply", in.SynthSupply),
		SynthUnits:     p.i64("synthUnits", in.SynthUnits),
		Units:          p.i64("units", in.Units),
		StartTime:      p.i64("startTime", in.StartTime),
		EndTime:        p.i64("endTime", in.EndTime),
	}
	if p.err != nil {
		return nil, p.err
	}
	return sample, nil
}

type swapResponse struct {
	Intervals []swapInterval `json:"intervals"`
	Meta      wireMeta       `json:"meta"`
}

type swapInterval struct {
	AverageSlip            string `json:"averageSlip"`
	EndTime                string `json:"endTime"`
	FromTradeAverageSlip   string `json:"fromTradeAverageSlip"`
	FromTradeCount         string `json:"fromTradeCount"`
	FromTradeFees          string `json:"fromTradeFees"`
	FromTradeVolume        string `json:"fromTradeVolume"`
	FromTradeVolumeUSD     string `json:"fromTradeVolumeUSD"`
	RunePriceUSD           string `json:"runePriceUSD"`
	StartTime              string `json:"startTime"`
	SynthMintAverageSlip   string `json:"synthMintAverageSlip"`
	SynthMintCount         string `json:"synthMintCount"`
	SynthMintFees          string `json:"synthMintFees"`
	SynthMintVolume        string `json:"synthMintVolume"`
	SynthMintVolumeUSD     string `json:"synthMintVolumeUSD"`
	SynthRedeemAverageSlip string `json:"synthRedeemAverageSlip"`
	SynthRedeemCount       string `json:"synthRedeemCount"`
	SynthRedeemFees        string `json:"synthRedeemFees"`
	SynthRedeemVolume      string `json:"synthRedeemVolume"`
	SynthRedeemVolumeUSD   string `json:"synthRedeemVolumeUSD"`
	ToAssetAverageSlip     string `json:"toAssetAverageSlip"`
	ToAssetCount           string `json:"toAssetCount"`
	ToAssetFees            string `json:"toAssetFees"`
	ToAssetVolume          string `json:"toAssetVolume"`
	ToAssetVolumeUSD       string `json:"toAssetVolumeUSD"`
	ToRuneAverageSlip      string `json:"toRuneAverageSlip"`
	ToRuneCount            string `json:"toRuneCount"`
	ToRuneFees             string `json:"toRuneFees"`
	ToRuneVolume           string `json:"toRuneVolume"`
	ToRuneVolumeUSD        string `json:"toRuneVolumeUSD"`
	ToTradeAverageSlip     string `json:"toTradeAverageSlip"`
	ToTradeCount           string `json:"toTradeCount"`
	ToTradeFees            string `json:"toTradeFees"`
	ToTradeVolume          string `json:"toTradeVolume"`
	ToTradeVolumeUSD       string `json:"toTradeVolumeUSD"`
	TotalCount             string `json:"totalCount"`
	TotalFees              string `json:"totalFees"`
	TotalVolume            string `json:"totalVolume"`
	TotalVolumeUSD         string `json:"totalVolumeUSD"`
}

func (in swapInterval) toSample(pool string) (*domain.SwapSample, error) {
	var p fieldParser
	sample := &domain.SwapSample{
		Pool:                   pool,
		AverageSlip:            p.f64("averageSlip", in.AverageSlip),
		FromTradeAverageSlip:   p.f64("fromTradeAverageSlip", in.FromTradeAverageSlip),
		FromTradeCount:         p.i64("fromTradeCount", in.FromTradeCount),
		FromTradeFees:          p.f64("fromTradeFees", in.FromTradeFees),
		FromTradeVolume:        p.f64("fromTradeVolume", in.FromTradeVolume),
		FromTradeVolumeUSD:     p.f64("fromTradeVolumeUSD", in.FromTradeVolumeUSD),
		RunePriceUSD:           p.f64("runePriceUSD", in.RunePriceUSD),
		SynthMintAverageSlip:   p.f64("synthMintAverageSlip", in.SynthMintAverageSlip),
		SynthMintCount:         p.i64("synthMintCount", in.SynthMintCount),
		SynthMintFees:          p.f64("synthMintFees", in.SynthMintFees),
		SynthMintVolume:        p.f64("synthMintVolume", in.SynthMintVolume),
		SynthMintVolumeUSD:     p.f64("synthMintVolumeUSD", in.SynthMintVolumeUSD),
		SynthRedeemAverageSlip: p.f64("synthRedeemAverageSlip", in.SynthRedeemAverageSlip),
		SynthRedeemCount:       p.i64("synthRedeemCount", in.SynthRedeemCount),
		SynthRedeemFees:        p.f64("synthRedeemFees", in.SynthRedeemFees),
		SynthRedeemVolume:      p.f64("synthRedeemVolume", in.SynthRedeemVolume),
		SynthRedeemVolumeUSD:   p.f64("synthRedeemVolumeUSD", in.SynthRedeemVolumeUSD),
		ToAssetAverageSlip:     p.f64("toAssetAverageSlip", in.ToAssetAverageSlip),
		ToAssetCount:           p.i64("toAssetCount", in.ToAssetCount),
		ToAssetFees:            p.f64("toAssetFees", in.ToAssetFees),
		ToAssetVolume:          p.f64("toAssetVolume", in.ToAssetVolume),
		ToAssetVolumeUSD:       p.f64("toAssetVolumeUSD", in.ToAssetVolumeUSD),
		ToRuneAverageSlip:      p.f64("toRuneAverageSlip", in.ToRuneAverageSlip),
		ToRuneCount:            p.i64("toRuneCount", in.ToRuneCount),
		ToRuneFees:             p.f64("toRuneFees", in.ToRuneFees),
		ToRuneVolume:           p.f64("toRuneVolume", in.ToRuneVolume),
		ToRuneVolumeUSD:        p.f64("toRuneVolumeUSD", in.ToRuneVolumeUSD),
		ToTradeAverageSlip:     p.f64("toTradeAverageSlip", in.ToTradeAverageSlip),
		ToTradeCount:           p.i64("toTradeCount", in.ToTradeCount),
		ToTradeFees:            p.f64("toTradeFees", in.ToTradeFees),
		ToTradeVolume:          p.f64("toTradeVolume", in.ToTradeVolume),
		ToTradeVolumeUSD:       p.f64("toTradeVolumeUSD", in.ToTradeVolumeUSD),
		TotalCount:             p.i64("totalCount", in.TotalCount),
		TotalFees:              p.f64("totalFees", in.TotalFees),
		TotalVolume:            p.f64("totalVolume", in.TotalVolume),
		TotalVolumeUSD:         p.f64("totalVolumeUSD", in.TotalVolumeUSD),
		StartTime:              p.i64("startTime", in.StartTime),
		EndTime:                p.i64("endTime", in.EndTime),
	}
	if p.err != nil {
		return nil, p.err
	}
	return sample, nil
}

type earningsResponse struct {
	Intervals []earningsInterval `json:"intervals"`
	Meta      wireMeta           `json:"meta"`
}

type earningsInterval struct {
	AvgNodeCount      string         `json:"avgNodeCount"`
	BlockRewards      string         `json:"blockRewards"`
	BondingEarnings   string         `json:"bondingEarnings"`
	Earnings          string         `json:"earnings"`
	EndTime           string         `json:"endTime"`
	LiquidityEarnings string         `json:"liquidityEarnings"`
	LiquidityFees     string         `json:"liquidityFees"`
	Pools             []earningsPool `json:"pools"`
	RunePriceUSD      string         `json:"runePriceUSD"`
	StartTime         string         `json:"startTime"`
}

type earningsPool struct {
	Pool                   string `json:"pool"`
	AssetLiquidityFees     string `json:"assetLiquidityFees"`
	Earnings               string `json:"earnings"`
	Rewards                string `json:"rewards"`
	RuneLiquidityFees      string `json:"runeLiquidityFees"`
	SaverEarning           string `json:"saverEarning"`
	TotalLiquidityFeesRune string `json:"totalLiquidityFeesRune"`
}

func (in earningsInterval) toWindow() (*domain.EarningsWindow, error) {
	var p fieldParser
	summary := &domain.EarningsSummary{
		AvgNodeCount:      p.f64("avgNodeCount", in.AvgNodeCount),
		BlockRewards:      p.i64("blockRewards", in.BlockRewards),
		BondingEarnings:   p.i64("bondingEarnings", in.BondingEarnings),
		Earnings:          p.i64("earnings", in.Earnings),
		LiquidityEarnings: p.i64("liquidityEarnings", in.LiquidityEarnings),
		LiquidityFees:     p.i64("liquidityFees", in.LiquidityFees),
		RunePriceUSD:      p.f64("runePriceUSD", in.RunePriceUSD),
		StartTime:         p.i64("startTime", in.StartTime),
		EndTime:           p.i64("endTime", in.EndTime),
	}

	pools := make([]*domain.EarningSample, 0, len(in.Pools))
	for _, pool := range in.Pools {
		pools = append(pools, &domain.EarningSample{
			Pool:                   pool.Pool,
			AssetLiquidityFees:     p.i64("assetLiquidityFees", pool.AssetLiquidityFees),
			Earnings:               p.i64("earnings", pool.Earnings),
			Rewards:                p.i64("rewards", pool.Rewards),
			RuneLiquidityFees:      p.i64("runeLiquidityFees", pool.RuneLiquidityFees),
			SaverEarnings:          p.i64("saverEarning", pool.SaverEarning),
			TotalLiquidityFeesRune: p.i64("totalLiquidityFeesRune", pool.TotalLiquidityFeesRune),
			StartTime:              summary.StartTime,
			EndTime:                summary.EndTime,
		})
	}
	if p.err != nil {
		return nil, p.err
	}

	return &domain.EarningsWindow{Summary: summary, Pools: pools}, nil
}

type runePoolResponse struct {
	Intervals []runePoolInterval `json:"intervals"`
	Meta      wireMeta           `json:"meta"`
}

type runePoolInterval struct {
	Count     string `json:"count"`
	EndTime   string `json:"endTime"`
	StartTime string `json:"startTime"`
	Units     string `json:"units"`
}

func (in runePoolInterval) toSample() (*domain.RunePoolSample, error) {
	var p fieldParser
	sample := &domain.RunePoolSample{
		Count:     p.f64("count", in.Count),
		Units:     p.f64("units", in.Units),
		StartTime: p.i64("startTime", in.StartTime),
		EndTime:   p.i64("endTime", in.EndTime),
	}
	if p.err != nil {
		return nil, p.err
	}
	return sample, nil
}
