package repository

import (
	"context"
	"time"

	"AtxEngine/internal/domain/models"
)

// TradeStream is a long-lived feed of executed trades from a linked platform.
type TradeStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// TradeStore is the append-only store of ingested trades.
type TradeStore interface {
	Store(ctx context.Context, t *models.Trade) error
	StoreBatch(ctx context.Context, trades []*models.Trade) error
	// Query returns trades for the account in [from, to), oldest first,
	// restricted to the given sources when non-empty.
	Query(ctx context.Context, accountID string, from, to time.Time, sources []string) ([]*models.Trade, error)
	// Counts returns total trades and distinct active (UTC) days for the
	// account across all history.
	Counts(ctx context.Context, accountID string) (totalTrades int, activeDays int, err error)
	// Sources returns the distinct source tags seen for the account.
	Sources(ctx context.Context, accountID string) ([]string, error)
	Health(ctx context.Context) error
	Close() error
}

// StateStore persists the per-account epoch machine state. Writers must hold
// the per-account lock for the whole read-modify-write cycle.
type StateStore interface {
	Load(ctx context.Context, accountID string) (*models.AccountState, error)
	Save(ctx context.Context, st *models.AccountState) error
	// Lock acquires the single-writer lock for the account. It returns an
	// unlock func on success and false when the lock is held elsewhere.
	Lock(ctx context.Context, accountID string, ttl time.Duration) (unlock func(), ok bool, err error)
	Health(ctx context.Context) error
}

// EpochPublisher emits epoch lifecycle events for downstream consumers.
type EpochPublisher interface {
	Publish(ctx context.Context, ev *models.EpochEvent) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordTradeIngested(source string)
	RecordError(kind string)
	RecordEpochTransition(kind string)
	RecordLatency(op string, seconds float64)
}
