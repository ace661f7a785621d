package scoring

import (
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
)

func mkTrade(ts time.Time, qty float64, withStop bool, orderType string) *models.Trade {
	t := &models.Trade{
		Source:     "mock",
		AccountID:  "acc-1",
		Instrument: "EURUSD",
		Side:       models.SideLong,
		Quantity:   qty,
		Timestamp:  ts,
		EntryPrice: 1.1,
		ExitPrice:  1.11,
		OrderType:  orderType,
		ClosedAt:   ts.Add(30 * time.Minute),
	}
	if withStop {
		sl := 1.09
		t.StopLoss = &sl
	}
	return t
}

func uniformTrades(n int) []*models.Trade {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := make([]*models.Trade, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mkTrade(base.Add(time.Duration(i)*time.Hour), 1.0, true, "limit"))
	}
	return out
}

func TestSubscoresEmptyWindowNeutral(t *testing.T) {
	fns := map[string]func([]*models.Trade) float64{
		"discipline":  Discipline,
		"risk":        RiskIntegrity,
		"execution":   ExecutionStability,
		"volatility":  BehaviouralVolatility,
		"consistency": Consistency,
	}
	for name, fn := range fns {
		if got := fn(nil); got != NeutralScore {
			t.Fatalf("%s: expected neutral %v, got %v", name, NeutralScore, got)
		}
	}
}

func TestSubscoresBounded(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	windows := [][]*models.Trade{
		uniformTrades(10),
		{mkTrade(base, 1, false, "market")},
		{
			mkTrade(base, 0.1, false, "market"),
			mkTrade(base.Add(time.Second), 50, false, "limit"),
			mkTrade(base.Add(2*time.Second), 0.1, false, "stop"),
			mkTrade(base.Add(40*time.Hour), 100, false, "market"),
		},
	}
	for i, w := range windows {
		sub := models.Subscores{
			Discipline:            Discipline(w),
			RiskIntegrity:         RiskIntegrity(w),
			ExecutionStability:    ExecutionStability(w),
			BehaviouralVolatility: BehaviouralVolatility(w),
			Consistency:           Consistency(w),
		}
		for name, v := range map[string]float64{
			"discipline":  sub.Discipline,
			"risk":        sub.RiskIntegrity,
			"execution":   sub.ExecutionStability,
			"volatility":  sub.BehaviouralVolatility,
			"consistency": sub.Consistency,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("window %d: %s out of bounds: %v", i, name, v)
			}
		}
	}
}

func TestDisciplinePenalizesMissingStops(t *testing.T) {
	withStops := uniformTrades(10)
	without := make([]*models.Trade, 0, 10)
	for _, tr := range withStops {
		cp := *tr
		cp.StopLoss = nil
		without = append(without, &cp)
	}
	if Discipline(without) >= Discipline(withStops) {
		t.Fatalf("expected missing stops to lower discipline: %v vs %v",
			Discipline(without), Discipline(withStops))
	}
}

func TestBehaviouralVolatilityLowForUniform(t *testing.T) {
	if v := BehaviouralVolatility(uniformTrades(10)); v > 10 {
		t.Fatalf("uniform trading should be calm, got %v", v)
	}
}

func TestBehaviouralVolatilityRisesWithDispersion(t *testing.T) {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	erratic := []*models.Trade{
		mkTrade(base, 0.1, true, "limit"),
		mkTrade(base.Add(time.Minute), 0.1, true, "limit"),
		mkTrade(base.Add(2*time.Minute), 40, true, "limit"),
		mkTrade(base.Add(3*time.Minute), 0.2, true, "limit"),
		mkTrade(base.AddDate(0, 0, 3), 90, true, "limit"),
	}
	if BehaviouralVolatility(erratic) <= BehaviouralVolatility(uniformTrades(5)) {
		t.Fatal("dispersed sizing/frequency should raise behavioural volatility")
	}
}

func TestExecutionStabilityPenalizesOrderTypeSwitching(t *testing.T) {
	stable := uniformTrades(8)
	switching := make([]*models.Trade, 0, 8)
	types := []string{"limit", "market", "stop", "market"}
	for i, tr := range stable {
		cp := *tr
		cp.OrderType = types[i%len(types)]
		switching = append(switching, &cp)
	}
	if ExecutionStability(switching) >= ExecutionStability(stable) {
		t.Fatal("order-type switching should lower execution stability")
	}
}

func TestConsistencyHighForRepeatableParameters(t *testing.T) {
	if c := Consistency(uniformTrades(10)); c < 90 {
		t.Fatalf("identical parameters should score near 100, got %v", c)
	}
}
