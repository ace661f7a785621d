package epoch

import (
	"testing"
	"time"

	"AtxEngine/internal/domain/models"
)

func day(n int) time.Time {
	return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func clearObs(n int) Observation {
	return Observation{
		Day: day(n),
		Snapshot: models.ATXSnapshot{
			Score: 82,
			Subscores: models.Subscores{
				Discipline: 85, RiskIntegrity: 85, ExecutionStability: 80,
				BehaviouralVolatility: 20, Consistency: 80,
			},
		},
		TradeCount: 10,
	}
}

func riskBreachObs(n int) Observation {
	return Observation{
		Day: day(n),
		Snapshot: models.ATXSnapshot{
			Score: 48,
			Subscores: models.Subscores{
				Discipline: 70, RiskIntegrity: 25, ExecutionStability: 70,
				BehaviouralVolatility: 30, Consistency: 70,
			},
			Flags: []string{models.FlagRiskIntegrityLow},
		},
		TradeCount: 10,
	}
}

func TestShortDisruptionLeavesNoTrace(t *testing.T) {
	st := models.NewAccountState("acc-1")
	Advance(st, clearObs(1))
	Advance(st, riskBreachObs(2))
	Advance(st, riskBreachObs(3)) // streak 2 < ConfirmWindow
	if ev := Advance(st, clearObs(4)); len(ev) != 0 {
		t.Fatalf("retraction must be silent, got events %v", ev)
	}
	if len(st.Epochs) != 0 {
		t.Fatalf("retracted provisional epoch must be discarded, have %d", len(st.Epochs))
	}
	if st.OpenEpoch() != nil {
		t.Fatal("no epoch should remain open")
	}
	if st.NextEpochID != 1 {
		t.Fatalf("retracted epoch must not consume an id, next=%d", st.NextEpochID)
	}
}

// Mirrors the documented scenario: breach from day 5, confirmation window 3,
// recovery from day 20.
func TestEpochLifecycleScenario(t *testing.T) {
	st := models.NewAccountState("acc-1")
	for d := 1; d <= 4; d++ {
		Advance(st, clearObs(d))
	}

	Advance(st, riskBreachObs(5))
	open := st.OpenEpoch()
	if open == nil || !open.Provisional {
		t.Fatal("disruption must open a provisional epoch")
	}
	if !open.StartedAt.Equal(day(5)) {
		t.Fatalf("epoch must start at first breach, got %v", open.StartedAt)
	}

	Advance(st, riskBreachObs(6))
	if !st.OpenEpoch().Provisional {
		t.Fatal("epoch must stay provisional below the confirmation window")
	}
	ev := Advance(st, riskBreachObs(7))
	if st.OpenEpoch().Provisional {
		t.Fatal("three consecutive disrupted observations must confirm")
	}
	if len(ev) != 1 || ev[0].Kind != "confirmed" {
		t.Fatalf("expected confirmed event, got %v", ev)
	}

	for d := 8; d <= 19; d++ {
		Advance(st, riskBreachObs(d))
	}
	Advance(st, clearObs(20))
	if st.OpenEpoch() == nil {
		t.Fatal("one clear observation must not close the epoch")
	}
	ev = Advance(st, clearObs(21))
	if st.OpenEpoch() != nil {
		t.Fatal("recovery window reached, epoch must close")
	}
	if len(ev) != 1 || ev[0].Kind != "closed" {
		t.Fatalf("expected closed event, got %v", ev)
	}

	if len(st.Epochs) != 1 {
		t.Fatalf("closed epoch must remain in history, have %d", len(st.Epochs))
	}
	e := st.Epochs[0]
	if e.Provisional {
		t.Fatal("a closed epoch must not be provisional")
	}
	if e.EndedAt == nil || !e.EndedAt.Equal(day(21)) {
		t.Fatalf("unexpected end %v", e.EndedAt)
	}
	if e.EndedReason == nil || *e.EndedReason != "risk integrity disruption" {
		t.Fatalf("ended reason must reference risk integrity, got %v", e.EndedReason)
	}
	if e.EndSnapshot == nil || e.StartSnapshot == nil {
		t.Fatal("epoch must carry start and end snapshots")
	}
}

func TestEpochsNeverOverlap(t *testing.T) {
	st := models.NewAccountState("acc-1")
	// Two full disruption cycles.
	for _, span := range [][2]int{{1, 6}, {10, 15}} {
		for d := span[0]; d <= span[1]; d++ {
			Advance(st, riskBreachObs(d))
		}
		Advance(st, clearObs(span[1]+1))
		Advance(st, clearObs(span[1]+2))
	}
	if len(st.Epochs) != 2 {
		t.Fatalf("expected 2 epochs, got %d", len(st.Epochs))
	}
	openCount := 0
	for i := range st.Epochs {
		if st.Epochs[i].Open() {
			openCount++
		}
	}
	if openCount != 0 {
		t.Fatalf("expected no open epochs, got %d", openCount)
	}
	first, second := st.Epochs[0], st.Epochs[1]
	if !first.EndedAt.Before(second.StartedAt) && !first.EndedAt.Equal(second.StartedAt) {
		t.Fatalf("epochs overlap: first ends %v, second starts %v", first.EndedAt, second.StartedAt)
	}
	if second.ID <= first.ID {
		t.Fatal("epoch ids must be monotonic")
	}
}

func TestAdvanceIdempotentPerDay(t *testing.T) {
	st := models.NewAccountState("acc-1")
	Advance(st, riskBreachObs(1))
	before := len(st.Epochs)
	Advance(st, riskBreachObs(1)) // replay
	if len(st.Epochs) != before || st.DisruptStreak != 1 {
		t.Fatal("replaying an observation must be a no-op")
	}
}

func TestDisruptionDuringRecoveryResetsClearStreak(t *testing.T) {
	st := models.NewAccountState("acc-1")
	for d := 1; d <= 3; d++ {
		Advance(st, riskBreachObs(d))
	}
	Advance(st, clearObs(4))
	Advance(st, riskBreachObs(5)) // relapse
	Advance(st, clearObs(6))
	if st.OpenEpoch() == nil {
		t.Fatal("relapse must reset the recovery streak")
	}
	Advance(st, clearObs(7))
	if st.OpenEpoch() != nil {
		t.Fatal("two consecutive clear observations after relapse must close")
	}
}

func TestMomentumTracksClearStreakAndResets(t *testing.T) {
	st := models.NewAccountState("acc-1")
	for d := 1; d <= 3; d++ {
		Advance(st, clearObs(d))
	}
	if st.Momentum.StreakDays != 3 {
		t.Fatalf("expected streak 3, got %d", st.Momentum.StreakDays)
	}
	Advance(st, riskBreachObs(4))
	if st.Momentum.StreakDays != 0 {
		t.Fatal("disruption must zero the momentum streak")
	}
	epochs := len(st.Epochs)
	ResetMomentum(st, day(5))
	if st.Momentum.ResetAt == nil || len(st.Epochs) != epochs {
		t.Fatal("momentum reset must not touch the epoch log")
	}
}

func TestLabelGeneration(t *testing.T) {
	cases := []struct {
		flags []string
		want  string
	}{
		{[]string{models.FlagRiskIntegrityLow, models.FlagBehaviouralVolatilityHigh},
			"risk integrity and behavioural volatility disruption"},
		{[]string{models.FlagRiskIntegrityLow}, "risk integrity disruption"},
		{[]string{models.FlagBehaviouralVolatilityHigh}, "behavioural volatility disruption"},
		{[]string{models.FlagDisciplineLow}, "discipline disruption"},
		{nil, "behavioural phase shift"},
	}
	for _, tc := range cases {
		if got := Label(tc.flags); got != tc.want {
			t.Fatalf("flags %v: got %q want %q", tc.flags, got, tc.want)
		}
	}
}

func TestBaselineLockRequiresEstablishedMaturity(t *testing.T) {
	st := models.NewAccountState("acc-1")
	for d := 1; d <= 3; d++ {
		Advance(st, riskBreachObs(d))
	}
	Advance(st, clearObs(4))
	Advance(st, clearObs(5)) // closes the epoch

	if ok, _ := TryLockBaseline(st, models.MaturityDeveloping, day(6)); ok {
		t.Fatal("lock must be refused below established maturity")
	}
	ok, _ := TryLockBaseline(st, models.MaturityEstablished, day(6))
	if !ok || !st.Baseline.Locked() {
		t.Fatal("lock must succeed at established maturity with a closed epoch")
	}
	if st.Baseline.EpochID != st.Epochs[0].ID {
		t.Fatal("baseline must reference the first closed epoch")
	}
	// Once locked, stays locked.
	if ok, reason := TryLockBaseline(st, models.MaturityEstablished, day(7)); ok || reason == "" {
		t.Fatal("re-lock must be refused")
	}
}
