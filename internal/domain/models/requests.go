package models

// Requests for the ATX HTTP endpoints. Defined in domain for consistency
// and reuse; bound and validated at the boundary so the engine never sees a
// malformed window.

type AccountATXRequest struct {
	AccountID string `param:"id" json:"accountId" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"epoch" validate:"oneof=epoch weekly monthly"`
	Sources   string `query:"sources" json:"sources"`
}

type TrendRequest struct {
	AccountID string `param:"id" json:"accountId" validate:"required"`
	Interval  string `query:"interval" json:"interval" default:"daily" validate:"oneof=daily weekly monthly"`
	Limit     int    `query:"limit" json:"limit" default:"30" validate:"gte=1,lte=365"`
	Sources   string `query:"sources" json:"sources"`
}

type DayRequest struct {
	AccountID string `param:"id" json:"accountId" validate:"required"`
	Date      string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Sources   string `query:"sources" json:"sources"`
}

type IngestTradesRequest struct {
	AccountID string  `param:"id" json:"accountId" validate:"required"`
	Trades    []Trade `json:"trades" validate:"required,min=1,max=1000,dive"`
}

type LockBaselineRequest struct {
	AccountID string `param:"id" json:"accountId" validate:"required"`
}

type ResetMomentumRequest struct {
	AccountID string `param:"id" json:"accountId" validate:"required"`
}
