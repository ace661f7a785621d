package scoring

import (
	"sort"

	"AtxEngine/internal/domain/models"
)

// Fixed aggregation weights. The calm term inverts behavioural volatility so
// the aggregate rises as volatility falls.
const (
	WeightDiscipline         = 0.25
	WeightRiskIntegrity      = 0.25
	WeightExecutionStability = 0.20
	WeightConsistency        = 0.15
	WeightCalm               = 0.15
)

// Flag thresholds.
const (
	ThresholdDisciplineLow             = 40.0
	ThresholdRiskIntegrityLow          = 40.0
	ThresholdExecutionStabilityLow     = 35.0
	ThresholdBehaviouralVolatilityHigh = 60.0
	ThresholdConsistencyLow            = 35.0
)

// MinObservationTrades is the minimum window trade count below which the
// snapshot carries INSUFFICIENT_DATA.
const MinObservationTrades = 5

// Compute scores a trade window. It is a pure function of the trades passed
// in: identical input yields identical output, with no clock dependency.
func Compute(trades []*models.Trade) models.ATXSnapshot {
	sub := models.Subscores{
		Discipline:            Discipline(trades),
		RiskIntegrity:         RiskIntegrity(trades),
		ExecutionStability:    ExecutionStability(trades),
		BehaviouralVolatility: BehaviouralVolatility(trades),
		Consistency:           Consistency(trades),
	}
	flags := Flags(sub, len(trades))
	return models.ATXSnapshot{
		Score:     Aggregate(sub),
		Subscores: sub,
		Flags:     flags,
		Profiles:  Profiles(flags),
	}
}

// Aggregate combines subscores into the [0,100] ATX score. Monotonic
// increasing in every good-direction subscore and decreasing in
// behavioural volatility.
func Aggregate(s models.Subscores) float64 {
	return clamp(WeightDiscipline*s.Discipline +
		WeightRiskIntegrity*s.RiskIntegrity +
		WeightExecutionStability*s.ExecutionStability +
		WeightConsistency*s.Consistency +
		WeightCalm*(100-s.BehaviouralVolatility))
}

// Flags derives the threshold-breach flags for a window. Sorted for stable
// output.
func Flags(s models.Subscores, tradeCount int) []string {
	var flags []string
	if tradeCount < MinObservationTrades {
		flags = append(flags, models.FlagInsufficientData)
	}
	if s.Discipline < ThresholdDisciplineLow {
		flags = append(flags, models.FlagDisciplineLow)
	}
	if s.RiskIntegrity < ThresholdRiskIntegrityLow {
		flags = append(flags, models.FlagRiskIntegrityLow)
	}
	if s.ExecutionStability < ThresholdExecutionStabilityLow {
		flags = append(flags, models.FlagExecutionStabilityLow)
	}
	if s.BehaviouralVolatility > ThresholdBehaviouralVolatilityHigh {
		flags = append(flags, models.FlagBehaviouralVolatilityHigh)
	}
	if s.Consistency < ThresholdConsistencyLow {
		flags = append(flags, models.FlagConsistencyLow)
	}
	sort.Strings(flags)
	return flags
}

// Profiles derives higher-level pattern tags from co-occurring flags.
// Stable and idempotent for the same flag set.
func Profiles(flags []string) []string {
	has := make(map[string]bool, len(flags))
	for _, f := range flags {
		has[f] = true
	}
	var out []string
	if has[models.FlagDisciplineLow] && has[models.FlagBehaviouralVolatilityHigh] {
		out = append(out, models.ProfileRevengeTrading)
	}
	if has[models.FlagRiskIntegrityLow] && has[models.FlagDisciplineLow] {
		out = append(out, models.ProfileOverexposure)
	}
	if has[models.FlagExecutionStabilityLow] && has[models.FlagBehaviouralVolatilityHigh] {
		out = append(out, models.ProfileErraticExecution)
	}
	sort.Strings(out)
	return out
}
