package models

// Flag vocabulary. Consumers must tolerate unknown flags.
const (
	FlagInsufficientData          = "INSUFFICIENT_DATA"
	FlagDisciplineLow             = "DISCIPLINE_LOW"
	FlagRiskIntegrityLow          = "RISK_INTEGRITY_LOW"
	FlagExecutionStabilityLow     = "EXECUTION_STABILITY_LOW"
	FlagBehaviouralVolatilityHigh = "BEHAVIOURAL_VOLATILITY_HIGH"
	FlagConsistencyLow            = "CONSISTENCY_LOW"
)

// Profile tags derived from co-occurring flags.
const (
	ProfileRevengeTrading   = "REVENGE_TRADING"
	ProfileOverexposure     = "OVEREXPOSURE"
	ProfileErraticExecution = "ERRATIC_EXECUTION"
)

// Subscores holds the five component metrics, each in [0,100].
// BehaviouralVolatility is the one bad-when-high dimension.
type Subscores struct {
	Discipline            float64 `json:"discipline"`
	RiskIntegrity         float64 `json:"riskIntegrity"`
	ExecutionStability    float64 `json:"executionStability"`
	BehaviouralVolatility float64 `json:"behaviouralVolatility"`
	Consistency           float64 `json:"consistency"`
}

// ATXSnapshot is a scored observation over a trade window. Derived, never
// persisted on its own.
type ATXSnapshot struct {
	Score     float64   `json:"score"`
	Subscores Subscores `json:"subscores"`
	Flags     []string  `json:"flags"`
	Profiles  []string  `json:"profiles,omitempty"`
}

// HasFlag reports whether the snapshot carries the given flag.
func (s *ATXSnapshot) HasFlag(flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
