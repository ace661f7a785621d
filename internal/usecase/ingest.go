package usecase

import (
	"context"
	"fmt"
	"time"

	"AtxEngine/internal/domain/models"
	drepo "AtxEngine/internal/domain/repository"
	"AtxEngine/pkg/queue"
	"AtxEngine/pkg/util"
)

// AdvanceJobType is the queue message type for observation-advance jobs.
const AdvanceJobType = "advance_observation"

// AdvancePayload asks the epoch advancer to re-score one account day.
type AdvancePayload struct {
	AccountID string `json:"accountId"`
	Day       string `json:"day"` // YYYY-MM-DD, UTC
}

// TradeIngestor stores accepted trades and schedules the affected account
// days for epoch advancement.
type TradeIngestor struct {
	store   drepo.TradeStore
	jobs    queue.QueueService
	metrics drepo.Metrics
}

// NewTradeIngestor creates a new TradeIngestor instance.
func NewTradeIngestor(store drepo.TradeStore, jobs queue.QueueService, metrics drepo.Metrics) *TradeIngestor {
	return &TradeIngestor{store: store, jobs: jobs, metrics: metrics}
}

// Process stores a single trade and enqueues its (account, day) observation.
func (i *TradeIngestor) Process(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}

	start := time.Now()
	if err := i.store.Store(ctx, t); err != nil {
		i.metrics.RecordError("ingest_store")
		return fmt.Errorf("store trade: %w", err)
	}
	i.metrics.RecordTradeIngested(t.Source)
	i.metrics.RecordLatency("ingest", time.Since(start).Seconds())

	return i.enqueue(ctx, map[string]map[string]struct{}{
		t.AccountID: {util.DayStart(t.Timestamp).Format(util.DayFormat): {}},
	})
}

// ProcessBatch stores a batch and enqueues one job per distinct (account, day).
func (i *TradeIngestor) ProcessBatch(ctx context.Context, trades []*models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	start := time.Now()
	if err := i.store.StoreBatch(ctx, trades); err != nil {
		i.metrics.RecordError("ingest_store_batch")
		return fmt.Errorf("store batch: %w", err)
	}

	days := make(map[string]map[string]struct{})
	for _, t := range trades {
		i.metrics.RecordTradeIngested(t.Source)
		d := util.DayStart(t.Timestamp).Format(util.DayFormat)
		if days[t.AccountID] == nil {
			days[t.AccountID] = make(map[string]struct{})
		}
		days[t.AccountID][d] = struct{}{}
	}
	i.metrics.RecordLatency("ingest_batch", time.Since(start).Seconds())

	return i.enqueue(ctx, days)
}

func (i *TradeIngestor) enqueue(ctx context.Context, days map[string]map[string]struct{}) error {
	for account, accountDays := range days {
		for day := range accountDays {
			payload := AdvancePayload{AccountID: account, Day: day}
			if err := i.jobs.PublishMessage(ctx, AdvanceJobType, payload); err != nil {
				i.metrics.RecordError("ingest_enqueue")
				return fmt.Errorf("enqueue advance %s/%s: %w", account, day, err)
			}
		}
	}
	return nil
}

// Close closes underlying resources if available.
func (i *TradeIngestor) Close() {
	if i.store != nil {
		_ = i.store.Close()
	}
}
