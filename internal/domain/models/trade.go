package models

import "time"

// Side is the direction of an executed position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Trade is one executed position, immutable once ingested.
// Keyed by (Source, TradeID).
type Trade struct {
	Source     string    `json:"source"`
	TradeID    string    `json:"tradeId"`
	AccountID  string    `json:"accountId"`
	Instrument string    `json:"instrument"`
	Side       Side      `json:"side"`
	Quantity   float64   `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	StopLoss   *float64  `json:"stopLoss,omitempty"`
	TakeProfit *float64  `json:"takeProfit,omitempty"`
	OrderType  string    `json:"orderType"`
	ClosedAt   time.Time `json:"closedAt"`
}

// Notional returns the position size in quote terms at entry.
func (t *Trade) Notional() float64 {
	return t.Quantity * t.EntryPrice
}

// HasProtection reports whether the trade carried a stop-loss or take-profit.
func (t *Trade) HasProtection() bool {
	return t.StopLoss != nil || t.TakeProfit != nil
}

// HoldingDuration is the time between entry and close; zero when the close
// timestamp is missing.
func (t *Trade) HoldingDuration() time.Duration {
	if t.ClosedAt.IsZero() || t.ClosedAt.Before(t.Timestamp) {
		return 0
	}
	return t.ClosedAt.Sub(t.Timestamp)
}
