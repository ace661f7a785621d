package usecase

import (
	"context"
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
)

func newTestReader(trades *memTradeStore, states *memStateStore, now time.Time) *ScoreReader {
	r := NewScoreReader(trades, states)
	r.now = func() time.Time { return now }
	return r
}

func TestGetDayWithoutTradesHasNullSnapshot(t *testing.T) {
	r := newTestReader(&memTradeStore{}, newMemStateStore(), testDay(10))

	resp, err := r.GetDay(context.Background(), &models.DayRequest{
		AccountID: "acc-1",
		Date:      "2026-04-05",
	})
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if resp.ATX != nil {
		t.Fatal("zero-trade day must carry a null snapshot")
	}
	if resp.TradeCount != 0 {
		t.Fatalf("unexpected trade count %d", resp.TradeCount)
	}
	if resp.Commentary == "" {
		t.Fatal("zero-trade day still gets a no-signal line")
	}
}

func TestGetDayScoresTradedDay(t *testing.T) {
	trades := &memTradeStore{}
	_ = trades.StoreBatch(context.Background(), clearDayTrades("acc-1", testDay(4)))
	r := newTestReader(trades, newMemStateStore(), testDay(10))

	resp, err := r.GetDay(context.Background(), &models.DayRequest{
		AccountID: "acc-1",
		Date:      testDay(4).Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if resp.ATX == nil {
		t.Fatal("traded day must carry a snapshot")
	}
	if resp.TradeCount != 6 {
		t.Fatalf("expected 6 trades, got %d", resp.TradeCount)
	}
}

func TestGetAccountATXWeeklyWindow(t *testing.T) {
	trades := &memTradeStore{}
	ctx := context.Background()
	// One recent day inside the trailing week, one stale day outside it.
	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(8)))
	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(0)))
	r := newTestReader(trades, newMemStateStore(), testDay(10))

	resp, err := r.GetAccountATX(ctx, &models.AccountATXRequest{
		AccountID: "acc-1",
		Timeframe: "weekly",
	})
	if err != nil {
		t.Fatalf("get atx: %v", err)
	}
	if resp.TradeCount != 6 {
		t.Fatalf("weekly window must only score recent trades, got %d", resp.TradeCount)
	}
	if resp.Epoch != nil {
		t.Fatal("no epoch machine state yet")
	}
	if resp.BaselineLocked {
		t.Fatal("baseline cannot be locked without history")
	}
}

func TestGetAccountATXNoTradesScoresNeutral(t *testing.T) {
	r := newTestReader(&memTradeStore{}, newMemStateStore(), testDay(10))

	resp, err := r.GetAccountATX(context.Background(), &models.AccountATXRequest{
		AccountID: "acc-1",
		Timeframe: "monthly",
	})
	if err != nil {
		t.Fatalf("get atx: %v", err)
	}
	if resp.TradeCount != 0 {
		t.Fatalf("empty window must report zero trades, got %d", resp.TradeCount)
	}
	if !resp.ATX.HasFlag(models.FlagInsufficientData) {
		t.Fatalf("empty window must flag insufficient data, got %v", resp.ATX.Flags)
	}
	if resp.ATX.Score != 50 {
		t.Fatalf("empty window scores neutral, got %v", resp.ATX.Score)
	}
}

func TestGetAccountATXEpochTimeframeFollowsOpenEpoch(t *testing.T) {
	trades := &memTradeStore{}
	states := newMemStateStore()
	ctx := context.Background()
	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(0)))
	_ = trades.StoreBatch(ctx, clearDayTrades("acc-1", testDay(5)))

	st := models.NewAccountState("acc-1")
	st.Epochs = append(st.Epochs, models.Epoch{
		ID:           1,
		AccountID:    "acc-1",
		StartedAt:    testDay(5),
		TriggerFlags: []string{models.FlagRiskIntegrityLow},
	})
	st.OpenIdx = 0
	st.NextEpochID = 2
	_ = states.Save(ctx, st)

	r := newTestReader(trades, states, testDay(6))
	resp, err := r.GetAccountATX(ctx, &models.AccountATXRequest{
		AccountID: "acc-1",
		Timeframe: "epoch",
	})
	if err != nil {
		t.Fatalf("get atx: %v", err)
	}
	if resp.TradeCount != 6 {
		t.Fatalf("epoch window starts at the open epoch, got %d trades", resp.TradeCount)
	}
	if resp.Epoch == nil || resp.Epoch.ID != 1 {
		t.Fatal("open epoch must surface in the response")
	}
}

func TestGetTrendSplitsSourcesAndSortsSeries(t *testing.T) {
	trades := &memTradeStore{}
	ctx := context.Background()
	day := testDay(9)
	batch := clearDayTrades("acc-1", day)
	for _, tr := range clearDayTrades("acc-1", day) {
		tr.Source = "ctrader:9"
		tr.TradeID = tr.TradeID + "b"
		batch = append(batch, tr)
	}
	_ = trades.StoreBatch(ctx, batch)

	r := newTestReader(trades, newMemStateStore(), testDay(10))
	resp, err := r.GetTrend(ctx, &models.TrendRequest{
		AccountID: "acc-1",
		Interval:  "daily",
		Limit:     7,
	})
	if err != nil {
		t.Fatalf("get trend: %v", err)
	}
	if len(resp.SeriesBySource) != 2 {
		t.Fatalf("expected 2 source series, got %v", resp.SeriesBySource)
	}
	if resp.SeriesBySource[0] != "ctrader:9" || resp.SeriesBySource[1] != "mock" {
		t.Fatalf("series keys must be sorted, got %v", resp.SeriesBySource)
	}
	if len(resp.Points) != 1 {
		t.Fatalf("expected a single scored bucket, got %d", len(resp.Points))
	}
	if resp.Points[0].TradeCount != 12 {
		t.Fatalf("combined series counts all sources, got %d", resp.Points[0].TradeCount)
	}
}

func TestGetTrendSourceFilterNarrowsWindow(t *testing.T) {
	trades := &memTradeStore{}
	ctx := context.Background()
	day := testDay(9)
	batch := clearDayTrades("acc-1", day)
	for _, tr := range clearDayTrades("acc-1", day) {
		tr.Source = "ctrader:9"
		tr.TradeID = tr.TradeID + "b"
		batch = append(batch, tr)
	}
	_ = trades.StoreBatch(ctx, batch)

	r := newTestReader(trades, newMemStateStore(), testDay(10))
	resp, err := r.GetTrend(ctx, &models.TrendRequest{
		AccountID: "acc-1",
		Interval:  "daily",
		Limit:     7,
		Sources:   "mock",
	})
	if err != nil {
		t.Fatalf("get trend: %v", err)
	}
	if len(resp.SeriesBySource) != 1 || resp.SeriesBySource[0] != "mock" {
		t.Fatalf("source filter must narrow the series, got %v", resp.SeriesBySource)
	}
	if resp.Points[0].TradeCount != 6 {
		t.Fatalf("filtered series counts one source, got %d", resp.Points[0].TradeCount)
	}
}
