package usecase

import (
	"context"
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
	applogger "AtxEngine/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testDay(n int) time.Time {
	return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// clearDayTrades builds a day of uniform, protected trades: no flags fire.
func clearDayTrades(account string, day time.Time) []*models.Trade {
	sl := 1950.0
	out := make([]*models.Trade, 0, 6)
	for i := 0; i < 6; i++ {
		ts := day.Add(time.Duration(i) * time.Hour)
		out = append(out, &models.Trade{
			Source:     "mock",
			TradeID:    account + ts.Format("150405"),
			AccountID:  account,
			Instrument: "XAUUSD",
			Side:       models.SideLong,
			Quantity:   1,
			Timestamp:  ts,
			EntryPrice: 2000,
			ExitPrice:  2002,
			StopLoss:   &sl,
			OrderType:  "limit",
			ClosedAt:   ts.Add(30 * time.Minute),
		})
	}
	return out
}

// breachDayTrades builds a day of unprotected trades with erratic sizing:
// risk integrity collapses below its threshold.
func breachDayTrades(account string, day time.Time) []*models.Trade {
	out := make([]*models.Trade, 0, 6)
	for i := 0; i < 6; i++ {
		qty := 1.0
		if i%2 == 1 {
			qty = 5.0
		}
		ts := day.Add(time.Duration(i) * time.Hour)
		out = append(out, &models.Trade{
			Source:     "mock",
			TradeID:    account + ts.Format("150405"),
			AccountID:  account,
			Instrument: "XAUUSD",
			Side:       models.SideLong,
			Quantity:   qty,
			Timestamp:  ts,
			EntryPrice: 2000,
			ExitPrice:  1990,
			OrderType:  "market",
			ClosedAt:   ts.Add(30 * time.Minute),
		})
	}
	return out
}

func newTestAdvancer(t *testing.T, trades *memTradeStore, states *memStateStore, pub *memPublisher) *EpochAdvancer {
	t.Helper()
	return NewEpochAdvancer(trades, states, pub, nopMetrics{}, testLogger(t), time.Second, 1)
}

func TestAdvanceDayZeroTradesIsNoop(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	adv := newTestAdvancer(t, trades, states, &memPublisher{})

	if err := adv.AdvanceDay(context.Background(), "acc-1", testDay(0)); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if states.saves != 0 {
		t.Fatalf("empty day must not persist state, got %d saves", states.saves)
	}
}

func TestAdvanceDayIdempotent(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	adv := newTestAdvancer(t, trades, states, &memPublisher{})
	ctx := context.Background()

	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(0)))
	if err := adv.AdvanceDay(ctx, "acc-1", testDay(0)); err != nil {
		t.Fatalf("first advance: %v", err)
	}
	if err := adv.AdvanceDay(ctx, "acc-1", testDay(0)); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if states.saves != 1 {
		t.Fatalf("replay must not persist again, got %d saves", states.saves)
	}
}

func TestEpochConfirmationPublishesEvent(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	pub := &memPublisher{}
	adv := newTestAdvancer(t, trades, states, pub)
	ctx := context.Background()

	for d := 0; d < 3; d++ {
		_ = trades.StoreBatch(ctx, breachDayTrades("acc-1", testDay(d)))
		if err := adv.AdvanceDay(ctx, "acc-1", testDay(d)); err != nil {
			t.Fatalf("advance day %d: %v", d, err)
		}
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected a single confirmation event, got %d", len(pub.events))
	}
	if pub.events[0].Kind != "confirmed" {
		t.Fatalf("expected confirmed event, got %s", pub.events[0].Kind)
	}
	st, _ := states.Load(ctx, "acc-1")
	open := st.OpenEpoch()
	if open == nil || open.Provisional {
		t.Fatal("expected an open confirmed epoch")
	}
}

func TestRetractedProvisionalPublishesNothing(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	pub := &memPublisher{}
	adv := newTestAdvancer(t, trades, states, pub)
	ctx := context.Background()

	_ = trades.StoreBatch(ctx, breachDayTrades("acc-1", testDay(0)))
	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(1)))
	for d := 0; d < 2; d++ {
		if err := adv.AdvanceDay(ctx, "acc-1", testDay(d)); err != nil {
			t.Fatalf("advance day %d: %v", d, err)
		}
	}

	if len(pub.events) != 0 {
		t.Fatalf("retracted provisional must publish nothing, got %d events", len(pub.events))
	}
	st, _ := states.Load(ctx, "acc-1")
	if len(st.Epochs) != 0 {
		t.Fatalf("retracted provisional must leave no trace, got %d epochs", len(st.Epochs))
	}
	if st.NextEpochID != 1 {
		t.Fatalf("epoch id must be reclaimed, got %d", st.NextEpochID)
	}
}

func TestAdvanceDayLockContention(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	adv := newTestAdvancer(t, trades, states, &memPublisher{})
	ctx := context.Background()

	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(0)))
	unlock, ok, _ := states.Lock(ctx, "acc-1", time.Second)
	if !ok {
		t.Fatal("setup lock failed")
	}
	defer unlock()

	if err := adv.AdvanceDay(ctx, "acc-1", testDay(0)); err == nil {
		t.Fatal("expected lock contention error")
	}
}

func TestLockBaselineRefusedWithThinHistory(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	adv := newTestAdvancer(t, trades, states, &memPublisher{})
	ctx := context.Background()

	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(0)))
	_, locked, reason, err := adv.LockBaseline(ctx, "acc-1", testDay(1))
	if err != nil {
		t.Fatalf("lock baseline: %v", err)
	}
	if locked {
		t.Fatal("thin history must not lock a baseline")
	}
	if reason == "" {
		t.Fatal("refusal must carry a reason")
	}
}

func TestResetMomentumLeavesEpochsAlone(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	adv := newTestAdvancer(t, trades, states, &memPublisher{})
	ctx := context.Background()

	for d := 0; d < 3; d++ {
		_ = trades.StoreBatch(ctx, breachDayTrades("acc-1", testDay(d)))
		_ = adv.AdvanceDay(ctx, "acc-1", testDay(d))
	}
	before, _ := states.Load(ctx, "acc-1")

	st, err := adv.ResetMomentum(ctx, "acc-1", testDay(4))
	if err != nil {
		t.Fatalf("reset momentum: %v", err)
	}
	if st.Momentum.StreakDays != 0 || st.Momentum.ResetAt == nil {
		t.Fatalf("momentum not reset: %+v", st.Momentum)
	}
	if len(st.Epochs) != len(before.Epochs) {
		t.Fatal("momentum reset must not touch epoch history")
	}
}

func TestIngestEnqueuesDistinctAccountDays(t *testing.T) {
	trades := &memTradeStore{}
	q := &memQueue{}
	ing := NewTradeIngestor(trades, q, nopMetrics{})
	ctx := context.Background()

	batch := append(clearDayTrades("acc-1", testDay(0)), clearDayTrades("acc-1", testDay(1))...)
	batch = append(batch, clearDayTrades("acc-2", testDay(0))...)
	if err := ing.ProcessBatch(ctx, batch); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	if len(q.payloads) != 3 {
		t.Fatalf("expected 3 distinct (account, day) jobs, got %d", len(q.payloads))
	}
}
