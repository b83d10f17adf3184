package domain

// Family identifies one upstream metric family and its local collection.
type Family string

// Metric families replicated from the upstream feed.
const (
	FamilyDepths   Family = "depths"
	FamilySwaps    Family = "swaps"
	FamilyEarnings Family = "earnings"
	FamilyRunePool Family = "runepool"
)

// Families lists every family in the ingestion set.
var Families = []Family{FamilyDepths, FamilySwaps, FamilyEarnings, FamilyRunePool}

// BaseGranularity is the smallest window width the upstream feed emits,
// in seconds. Every stored sample spans exactly one base-granularity window.
const BaseGranularity int64 = 3600

// FeedStartTime is the epoch second of the upstream feed's first recorded
// window, derived from the upstream metadata. Cold backfills resume from
// here when a collection is empty.
const FeedStartTime int64 = 1647913096

// DepthSample is one hourly depth/price observation for a pool.
// Corresponds to the depth_history collection.
type DepthSample struct {
	ID             int64   // storage-assigned, 0 until inserted
	Pool           string  // pool identifier, e.g. BTC.BTC
	AssetDepth     int64   // asset side depth in base units
	AssetPrice     float64 // asset price in rune
	AssetPriceUSD  float64 // asset price in USD
	LiquidityUnits int64   // pool liquidity units
	Luvi           float64 // liquidity unit value index
	MembersCount   int64   // number of liquidity members
	RuneDepth      int64   // rune side depth in base units
	SynthSupply    int64   // synth supply
	SynthUnits     int64   // synth units
	Units          int64   // total pool units (liquidity + synth)
	StartTime      int64   // window start, epoch seconds
	EndTime        int64   // window end, StartTime + BaseGranularity
}

// SwapSample is one hourly swap-activity observation for a pool.
// Corresponds to the swap_history collection.
type SwapSample struct {
	ID                     int64
	Pool                   string
	AverageSlip            float64
	FromTradeAverageSlip   float64
	FromTradeCount         int64
	FromTradeFees          float64
	FromTradeVolume        float64
	FromTradeVolumeUSD     float64
	RunePriceUSD           float64
	SynthMintAverageSlip   float64
	SynthMintCount         int64
	SynthMintFees          float64
	SynthMintVolume        float64
	SynthMintVolumeUSD     float64
	SynthRedeemAverageSlip float64
	SynthRedeemCount       int64
	SynthRedeemFees        float64
	SynthRedeemVolume      float64
	SynthRedeemVolumeUSD   float64
	ToAssetAverageSlip     float64
	ToAssetCount           int64
	ToAssetFees            float64
	ToAssetVolume          float64
	ToAssetVolumeUSD       float64
	ToRuneAverageSlip      float64
	ToRuneCount            int64
	ToRuneFees             float64
	ToRuneVolume           float64
	ToRuneVolumeUSD        float64
	ToTradeAverageSlip     float64
	ToTradeCount           int64
	ToTradeFees            float64
	ToTradeVolume          float64
	ToTradeVolumeUSD       float64
	TotalCount             int64
	TotalFees              float64
	TotalVolume            float64
	TotalVolumeUSD         float64
	StartTime              int64
	EndTime                int64
}

// EarningsSummary is the network-wide earnings aggregate for one hourly
// window, shared by every per-pool EarningSample of that window.
// Written before its dependent samples; immutable afterwards.
type EarningsSummary struct {
	ID                int64   // storage-assigned reference key
	AvgNodeCount      float64 // average active node count
	BlockRewards      int64   // block rewards in rune base units
	BondingEarnings   int64   // earnings to node bonders
	Earnings          int64   // total earnings
	LiquidityEarnings int64   // earnings to liquidity providers
	LiquidityFees     int64   // total liquidity fees collected
	RunePriceUSD      float64
	StartTime         int64
	EndTime           int64
}

// EarningSample is one pool's earnings for one hourly window. SummaryID
// references the EarningsSummary row covering the same window.
type EarningSample struct {
	ID                     int64
	Pool                   string
	AssetLiquidityFees     int64
	Earnings               int64
	Rewards                int64
	RuneLiquidityFees      int64
	SaverEarnings          int64
	TotalLiquidityFeesRune int64
	SummaryID              int64
	StartTime              int64
	EndTime                int64
}

// EarningsWindow couples one window's network summary with its per-pool
// breakdown, the unit the upstream feed delivers earnings in.
type EarningsWindow struct {
	Summary *EarningsSummary
	Pools   []*EarningSample
}

// RunePoolSample is one hourly observation of rune-pool membership.
// Pool-agnostic: one row per window for the whole network.
type RunePoolSample struct {
	ID        int64
	Count     float64 // member count as reported upstream
	Units     float64 // pool units
	StartTime int64
	EndTime   int64
}
