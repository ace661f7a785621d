package models

import "time"

// TrendPoint is one time-bucketed observation. ATX is nil for buckets with
// zero trades: absence means "no signal", never a zero score.
type TrendPoint struct {
	Bucket     time.Time    `json:"bucket"`
	TradeCount int          `json:"tradeCount"`
	ATX        *ATXSnapshot `json:"atx,omitempty"`
}

// Digest is a short per-call summary over the latest trend buckets.
type Digest struct {
	Summary   string   `json:"summary"`
	TopDriver string   `json:"topDriver,omitempty"`
	Delta     float64  `json:"delta,omitempty"`
	WatchList []string `json:"watchList,omitempty"`
}

// Trend bundles everything the trend endpoint returns for one account.
type Trend struct {
	Points   []TrendPoint            `json:"points"`
	BySource map[string][]TrendPoint `json:"bySource"`
	Epochs   []Epoch                 `json:"epochs"`
	Digest   *Digest                 `json:"digest,omitempty"`
}
