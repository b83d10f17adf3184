package query

// Response shapes served to API clients. Interval times always describe
// the resampled bucket, not the underlying hourly sample.

// DepthInterval is one resampled depth/price bucket.
type DepthInterval struct {
	AssetDepth     int64   `json:"assetDepth"`
	AssetPrice     float64 `json:"assetPrice"`
	AssetPriceUSD  float64 `json:"assetPriceUSD"`
	LiquidityUnits int64   `json:"liquidityUnits"`
	Luvi           float64 `json:"luvi"`
	MembersCount   int64   `json:"membersCount"`
	RuneDepth      int64   `json:"runeDepth"`
	SynthSupply    int64   `json:"synthSupply"`
	SynthUnits     int64   `json:"synthUnits"`
	Units          int64   `json:"units"`
	StartTime      int64   `json:"startTime"`
	EndTime        int64   `json:"endTime"`
}

// DepthHistoryMeta summarizes the page: start fields from its earliest
// bucket, end fields from its latest, plus the luvi and price deltas
// between the two.
type DepthHistoryMeta struct {
	EndAssetDepth    int64   `json:"endAssetDepth"`
	EndLPUnits       int64   `json:"endLPUnits"`
	EndMemberCount   int64   `json:"endMemberCount"`
	EndRuneDepth     int64   `json:"endRuneDepth"`
	EndSynthUnits    int64   `json:"endSynthUnits"`
	EndTime          int64   `json:"endTime"`
	LuviIncrease     float64 `json:"luviIncrease"`
	PriceShiftLoss   float64 `json:"priceShiftLoss"`
	StartAssetDepth  int64   `json:"startAssetDepth"`
	StartLPUnits     int64   `json:"startLPUnits"`
	StartMemberCount int64   `json:"startMemberCount"`
	StartRuneDepth   int64   `json:"startRuneDepth"`
	StartSynthUnits  int64   `json:"startSynthUnits"`
	StartTime        int64   `json:"startTime"`
}

// DepthHistoryResponse is the depth endpoint payload.
type DepthHistoryResponse struct {
	Meta      DepthHistoryMeta `json:"meta"`
	Intervals []DepthInterval  `json:"intervals"`
}

// SwapInterval is one resampled swap-activity bucket. The meta block
// reuses this shape: the latest bucket's fields with the page's
// earliest start time.
type SwapInterval struct {
	AverageSlip            float64 `json:"averageSlip"`
	FromTradeAverageSlip   float64 `json:"fromTradeAverageSlip"`
	FromTradeCount         int64   `json:"fromTradeCount"`
	FromTradeFees          float64 `json:"fromTradeFees"`
	FromTradeVolume        float64 `json:"fromTradeVolume"`
	FromTradeVolumeUSD     float64 `json:"fromTradeVolumeUSD"`
	RunePriceUSD           float64 `json:"runePriceUSD"`
	SynthMintAverageSlip   float64 `json:"synthMintAverageSlip"`
	SynthMintCount         int64   `json:"synthMintCount"`
	SynthMintFees          float64 `json:"synthMintFees"`
	SynthMintVolume        float64 `json:"synthMintVolume"`
	SynthMintVolumeUSD     float64 `json:"synthMintVolumeUSD"`
	SynthRedeemAverageSlip float64 `json:"synthRedeemAverageSlip"`
	SynthRedeemCount       int64   `json:"synthRedeemCount"`
	SynthRedeemFees        float64 `json:"synthRedeemFees"`
	SynthRedeemVolume      float64 `json:"synthRedeemVolume"`
	SynthRedeemVolumeUSD   float64 `json:"synthRedeemVolumeUSD"`
	ToAssetAverageSlip     float64 `json:"toAssetAverageSlip"`
	ToAssetCount           int64   `json:"toAssetCount"`
	ToAssetFees            float64 `json:"toAssetFees"`
	ToAssetVolume          float64 `json:"toAssetVolume"`
	ToAssetVolumeUSD       float64 `json:"toAssetVolumeUSD"`
	ToRuneAverageSlip      float64 `json:"toRuneAverageSlip"`
	ToRuneCount            int64   `json:"toRuneCount"`
	ToRuneFees             float64 `json:"toRuneFees"`
	ToRuneVolume           float64 `json:"toRuneVolume"`
	ToRuneVolumeUSD        float64 `json:"toRuneVolumeUSD"`
	ToTradeAverageSlip     float64 `json:"toTradeAverageSlip"`
	ToTradeCount           int64   `json:"toTradeCount"`
	ToTradeFees            float64 `json:"toTradeFees"`
	ToTradeVolume          float64 `json:"toTradeVolume"`
	ToTradeVolumeUSD       float64 `json:"toTradeVolumeUSD"`
	TotalCount             int64   `json:"totalCount"`
	TotalFees              float64 `json:"totalFees"`
	TotalVolume            float64 `json:"totalVolume"`
	TotalVolumeUSD         float64 `json:"totalVolumeUSD"`
	StartTime              int64   `json:"startTime"`
	EndTime                int64   `json:"endTime"`
}

// SwapHistoryResponse is the swap endpoint payload.
type SwapHistoryResponse struct {
	Meta      SwapInterval   `json:"meta"`
	Intervals []SwapInterval `json:"intervals"`
}

// EarningsPool is one pool's earnings within a bucket.
type EarningsPool struct {
	Pool                   string `json:"pool"`
	AssetLiquidityFees     int64  `json:"assetLiquidityFees"`
	Earnings               int64  `json:"earnings"`
	Rewards                int64  `json:"rewards"`
	RuneLiquidityFees      int64  `json:"runeLiquidityFees"`
	SaverEarnings          int64  `json:"saverEarnings"`
	TotalLiquidityFeesRune int64  `json:"totalLiquidityFeesRune"`
}

// EarningsInterval is one resampled earnings bucket: the network
// summary of the bucket's newest window plus its per-pool breakdown.
type EarningsInterval struct {
	AvgNodeCount      float64        `json:"avgNodeCount"`
	BlockRewards      int64          `json:"blockRewards"`
	BondingEarnings   int64          `json:"bondingEarnings"`
	Earnings          int64          `json:"earnings"`
	LiquidityEarnings int64          `json:"liquidityEarnings"`
	LiquidityFees     int64          `json:"liquidityFees"`
	RunePriceUSD      float64        `json:"runePriceUSD"`
	Pools             []EarningsPool `json:"pools"`
	StartTime         int64          `json:"startTime"`
	EndTime           int64          `json:"endTime"`
}

// EarningsMeta averages the page's summary fields across its buckets.
type EarningsMeta struct {
	AvgNodeCount      float64 `json:"avgNodeCount"`
	BlockRewards      float64 `json:"blockRewards"`
	BondingEarnings   float64 `json:"bondingEarnings"`
	Earnings          float64 `json:"earnings"`
	LiquidityEarnings float64 `json:"liquidityEarnings"`
	LiquidityFees     float64 `json:"liquidityFees"`
	RunePriceUSD      float64 `json:"runePriceUSD"`
	StartTime         int64   `json:"startTime"`
	EndTime           int64   `json:"endTime"`
}

// EarningsHistoryResponse is the earnings endpoint payload.
type EarningsHistoryResponse struct {
	Meta      EarningsMeta       `json:"meta"`
	Intervals []EarningsInterval `json:"intervals"`
}

// RunePoolInterval is one resampled rune-pool membership bucket. The
// endpoint serves a bare array of these, no meta block.
type RunePoolInterval struct {
	Count     float64 `json:"count"`
	Units     float64 `json:"units"`
	StartTime int64   `json:"startTime"`
	EndTime   int64   `json:"endTime"`
}
