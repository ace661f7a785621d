package models

// Response shapes for the ATX endpoints. These mirror the contract the
// existing clients consume, so field names and optionality are fixed.

type AccountATXResponse struct {
	AccountID      string               `json:"accountId"`
	TradeCount     int                  `json:"tradeCount"`
	Epoch          *Epoch               `json:"epoch,omitempty"`
	ATX            ATXSnapshot          `json:"atx"`
	Commentary     string               `json:"commentary,omitempty"`
	Observation    *ObservationMaturity `json:"observation,omitempty"`
	Maturity       MaturityBand         `json:"maturity,omitempty"`
	BaselineLocked bool                 `json:"baselineLocked"`
}

type TrendResponse struct {
	AccountID      string                  `json:"accountId"`
	Interval       string                  `json:"interval"`
	Points         []TrendPoint            `json:"points"`
	BySource       map[string][]TrendPoint `json:"bySource"`
	SeriesBySource []string                `json:"seriesBySource"`
	Digest         *Digest                 `json:"digest,omitempty"`
	Epochs         []Epoch                 `json:"epochs"`
	Observation    *ObservationMaturity    `json:"observation,omitempty"`
	Maturity       MaturityBand            `json:"maturity,omitempty"`
	BaselineLocked bool                    `json:"baselineLocked"`
	Baseline       *Baseline               `json:"baseline,omitempty"`
}

type DayResponse struct {
	AccountID  string       `json:"accountId"`
	Date       string       `json:"date"`
	Sources    []string     `json:"sources"`
	TradeCount int          `json:"tradeCount"`
	ATX        *ATXSnapshot `json:"atx"`
	Commentary string       `json:"commentary,omitempty"`
}

type IngestTradesResponse struct {
	AccountID string `json:"accountId"`
	Accepted  int    `json:"accepted"`
	Rejected  int    `json:"rejected"`
}

type LockBaselineResponse struct {
	AccountID string    `json:"accountId"`
	Locked    bool      `json:"locked"`
	Reason    string    `json:"reason,omitempty"`
	Baseline  *Baseline `json:"baseline,omitempty"`
}

type ResetMomentumResponse struct {
	AccountID string   `json:"accountId"`
	Momentum  Momentum `json:"momentum"`
}
