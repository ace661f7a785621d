package trend

import (
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
)

func snapPoint(day int, sub models.Subscores, score float64, flags ...string) models.TrendPoint {
	return models.TrendPoint{
		Bucket:     time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC),
		TradeCount: 8,
		ATX:        &models.ATXSnapshot{Score: score, Subscores: sub, Flags: flags},
	}
}

func TestBuildDigestTopDriver(t *testing.T) {
	prev := models.Subscores{Discipline: 80, RiskIntegrity: 80, ExecutionStability: 70, BehaviouralVolatility: 30, Consistency: 75}
	cur := models.Subscores{Discipline: 78, RiskIntegrity: 45, ExecutionStability: 72, BehaviouralVolatility: 35, Consistency: 74}
	d := BuildDigest([]models.TrendPoint{
		snapPoint(1, prev, 76),
		snapPoint(2, cur, 62, models.FlagRiskIntegrityLow),
	})
	if d == nil {
		t.Fatal("expected a digest")
	}
	if d.TopDriver != "riskIntegrity" {
		t.Fatalf("expected riskIntegrity as top driver, got %s", d.TopDriver)
	}
	if d.Delta >= 0 {
		t.Fatalf("risk integrity fell, delta must be negative: %v", d.Delta)
	}
	if len(d.WatchList) != 1 || d.WatchList[0] != models.FlagRiskIntegrityLow {
		t.Fatalf("emerging flag must be on the watch list, got %v", d.WatchList)
	}
}

func TestBuildDigestWatchListBounded(t *testing.T) {
	sub := models.Subscores{Discipline: 20, RiskIntegrity: 20, ExecutionStability: 20, BehaviouralVolatility: 90, Consistency: 20}
	d := BuildDigest([]models.TrendPoint{
		snapPoint(1, sub, 70),
		snapPoint(2, sub, 20,
			models.FlagDisciplineLow, models.FlagRiskIntegrityLow,
			models.FlagExecutionStabilityLow, models.FlagBehaviouralVolatilityHigh,
			models.FlagConsistencyLow),
	})
	if len(d.WatchList) > maxWatchList {
		t.Fatalf("watch list must be bounded at %d, got %d", maxWatchList, len(d.WatchList))
	}
}

func TestBuildDigestNoScoredBuckets(t *testing.T) {
	if d := BuildDigest(nil); d != nil {
		t.Fatal("no scored buckets should produce no digest")
	}
	if d := BuildDigest([]models.TrendPoint{{TradeCount: 0}}); d != nil {
		t.Fatal("unscored points should produce no digest")
	}
}

func TestBuildDigestSingleBucket(t *testing.T) {
	sub := models.Subscores{Discipline: 80, RiskIntegrity: 80, ExecutionStability: 80, BehaviouralVolatility: 20, Consistency: 80}
	d := BuildDigest([]models.TrendPoint{snapPoint(1, sub, 80)})
	if d == nil || d.Summary == "" {
		t.Fatal("single scored bucket still yields a summary")
	}
	if d.TopDriver != "" {
		t.Fatal("no delta without two scored buckets")
	}
}

func TestCommentaryDeterministicAndNonDirective(t *testing.T) {
	snap := &models.ATXSnapshot{
		Score:     55,
		Subscores: models.Subscores{RiskIntegrity: 30},
		Flags:     []string{models.FlagRiskIntegrityLow},
	}
	a := Commentary(snap, 12)
	b := Commentary(snap, 12)
	if a != b {
		t.Fatal("commentary must be deterministic")
	}
	if a == "" {
		t.Fatal("commentary must not be empty for a scored window")
	}
	if got := Commentary(nil, 0); got == "" {
		t.Fatal("zero-trade windows still get a no-signal line")
	}
}
