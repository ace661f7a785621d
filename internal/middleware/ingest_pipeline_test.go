package middleware

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
)

type countingProc struct {
	n int64
}

func (p *countingProc) Process(context.Context, *models.Trade) error {
	atomic.AddInt64(&p.n, 1)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordTradeIngested(string)    {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordEpochTransition(string)  {}
func (nopMetrics) RecordLatency(string, float64) {}

func validTrade(accountID, tradeID string) *models.Trade {
	ts := time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
	return &models.Trade{
		Source:     "mock",
		TradeID:    tradeID,
		AccountID:  accountID,
		Instrument: "XAUUSD",
		Side:       models.SideLong,
		Quantity:   1,
		Timestamp:  ts,
		EntryPrice: 2000,
		ExitPrice:  2002,
		OrderType:  "limit",
		ClosedAt:   ts.Add(30 * time.Minute),
	}
}

func TestProcessConcurrentWriters(t *testing.T) {
	proc := &countingProc{}
	p := NewIngestPipeline(proc, nopMetrics{}, WithMaxRPS(50))
	ctx := context.Background()

	// Kafka workers and the feed collector call Process at the same time;
	// distinct accounts keep the throttle map growing on every call.
	const writers = 4
	const perWriter = 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				acc := fmt.Sprintf("acc-%d-%d", w, i)
				if err := p.Process(ctx, validTrade(acc, "t1")); err != nil {
					t.Errorf("process %s: %v", acc, err)
				}
			}
		}(w)
	}
	wg.Wait()

	if got := atomic.LoadInt64(&proc.n); got != writers*perWriter {
		t.Fatalf("expected %d trades downstream, got %d", writers*perWriter, got)
	}
}

func TestProcessThrottlesBurstPerAccount(t *testing.T) {
	proc := &countingProc{}
	p := NewIngestPipeline(proc, nopMetrics{}, WithMaxRPS(1))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := p.Process(ctx, validTrade("acc-1", fmt.Sprintf("t%d", i))); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if got := atomic.LoadInt64(&proc.n); got != 1 {
		t.Fatalf("burst above the per-account rate must be dropped, got %d through", got)
	}
}

func TestValidateTradeRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Trade)
	}{
		{"missing account", func(tr *models.Trade) { tr.AccountID = "" }},
		{"missing source", func(tr *models.Trade) { tr.Source = "" }},
		{"missing trade id", func(tr *models.Trade) { tr.TradeID = "" }},
		{"bad side", func(tr *models.Trade) { tr.Side = "sideways" }},
		{"zero quantity", func(tr *models.Trade) { tr.Quantity = 0 }},
		{"closed before open", func(tr *models.Trade) { tr.ClosedAt = tr.Timestamp.Add(-time.Minute) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTrade("acc-1", "t1")
			tt.mutate(tr)
			if err := ValidateTrade(tr); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if err := ValidateTrade(validTrade("acc-1", "t1")); err != nil {
		t.Fatalf("valid trade rejected: %v", err)
	}
}
