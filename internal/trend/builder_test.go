package trend

import (
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"
)

func tradeAt(ts time.Time, source string) *models.Trade {
	sl := 1.0
	return &models.Trade{
		Source:     source,
		AccountID:  "acc-1",
		Instrument: "XAUUSD",
		Side:       models.SideLong,
		Quantity:   1,
		Timestamp:  ts,
		EntryPrice: 2000,
		ExitPrice:  2001,
		StopLoss:   &sl,
		OrderType:  "limit",
		ClosedAt:   ts.Add(time.Hour),
	}
}

func TestBuildPointsSkipsEmptyBuckets(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	var trades []*models.Trade
	// Trades on two of the trailing seven days, several per day.
	for _, d := range []int{2, 5} {
		day := now.AddDate(0, 0, -d)
		for i := 0; i < 6; i++ {
			trades = append(trades, tradeAt(day.Add(time.Duration(i)*time.Minute), "mock"))
		}
	}
	points := BuildPoints(trades, domrepo.IntervalDaily, 7, now)
	if len(points) != 2 {
		t.Fatalf("expected 2 scored buckets, got %d", len(points))
	}
	for _, p := range points {
		if p.ATX == nil {
			t.Fatal("non-empty bucket must carry a snapshot")
		}
		if p.TradeCount == 0 {
			t.Fatal("non-empty bucket must carry its trade count")
		}
		if p.ATX.Score == 0 && p.TradeCount > 0 {
			t.Fatal("scored bucket must not read as zero")
		}
	}
}

func TestBuildPointsExcludesTradesBeforeLookback(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	old := tradeAt(now.AddDate(0, 0, -30), "mock")
	points := BuildPoints([]*models.Trade{old}, domrepo.IntervalDaily, 7, now)
	if len(points) != 0 {
		t.Fatalf("trade outside lookback must not produce a point, got %d", len(points))
	}
}

func TestBuildBySourceSplitsSeries(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	day := now.AddDate(0, 0, -1)
	trades := []*models.Trade{
		tradeAt(day, "mock"),
		tradeAt(day.Add(time.Minute), "mock"),
		tradeAt(day.Add(2*time.Minute), "ctrader:123"),
	}
	bySource := BuildBySource(trades, domrepo.IntervalDaily, 7, now)
	if len(bySource) != 2 {
		t.Fatalf("expected 2 source series, got %d", len(bySource))
	}
	if got := bySource["mock"][0].TradeCount; got != 2 {
		t.Fatalf("mock series should count 2 trades, got %d", got)
	}
	if got := bySource["ctrader:123"][0].TradeCount; got != 1 {
		t.Fatalf("ctrader series should count 1 trade, got %d", got)
	}
}

func TestWeeklyBucketing(t *testing.T) {
	now := time.Date(2026, 5, 13, 12, 0, 0, 0, time.UTC) // Wednesday
	monday := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	trades := []*models.Trade{
		tradeAt(monday.Add(2*time.Hour), "mock"),
		tradeAt(now.Add(-time.Hour), "mock"),
	}
	points := BuildPoints(trades, domrepo.IntervalWeekly, 4, now)
	if len(points) != 1 {
		t.Fatalf("both trades fall in the current week, expected 1 point, got %d", len(points))
	}
	if !points[0].Bucket.Equal(monday) {
		t.Fatalf("weekly bucket must start Monday, got %v", points[0].Bucket)
	}
	if points[0].TradeCount != 2 {
		t.Fatalf("expected 2 trades in week bucket, got %d", points[0].TradeCount)
	}
}
