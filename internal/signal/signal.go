// Package signal standardizes payloads shared between data ingestion, strategy, and publishing layers.
package signal

import "time"

// Direction is the closed set of directional calls a scorer can make.
type Direction string

const (
	// Up predicts the asset closes the next market window higher.
	Up Direction = "UP"
	// Down predicts the asset closes the next market window lower.
	Down Direction = "DOWN"
	// NoTrade means no directional edge was found this cycle.
	NoTrade Direction = "NO_TRADE"
)

// Kind distinguishes periodic monitoring emissions from the authoritative
// once-per-window finalize emission consumed by the executor.
type Kind string

const (
	KindRegular  Kind = "regular"
	KindFinalize Kind = "finalize"
)

// PricePoint models one observed trade or candle close for an asset.
// Immutable once recorded.
type PricePoint struct {
	Asset  string
	Price  float64
	Volume float64
	Ts     time.Time
}

// Snapshot bundles the scalar indicator values a verdict was based on.
// Recomputed fresh on every scoring call; never cached across calls.
type Snapshot struct {
	RSI             float64 `json:"rsi"`
	Mom1            float64 `json:"mom_1"`
	Mom3            float64 `json:"mom_3"`
	Mom5            float64 `json:"mom_5"`
	MomSlope        float64 `json:"mom_slope"`
	VolatilityPct   float64 `json:"volatility_pct"`
	VolRegime       string  `json:"vol_regime"`
	TrendBias       string  `json:"trend_bias"`
	TrendStrength   float64 `json:"trend_strength"`
	DistFromMeanPct float64 `json:"dist_from_mean_pct"`
	BollingerPos    float64 `json:"bollinger_pos"`
	VWAPDist        float64 `json:"vwap_dist"`
	ZScore          float64 `json:"zscore"`
	VolumeImpulse   float64 `json:"volume_impulse"`
	Score           float64 `json:"score"`
}

// Signal expresses a directional call for one asset and one market window.
// Superseded, never mutated, by the next cycle's signal for the same asset.
type Signal struct {
	Asset       string    `json:"asset"`
	Direction   Direction `json:"direction"`
	Confidence  int       `json:"confidence"`
	Price       float64   `json:"price"`
	Ts          time.Time `json:"timestamp"`
	EntryWindow string    `json:"entry_window"`
	Ready       bool      `json:"ready"`
	Size        float64   `json:"position_size"`
	Kind        Kind      `json:"type"`
	Reason      string    `json:"reason,omitempty"`
	Basis       Snapshot  `json:"basis"`
}
