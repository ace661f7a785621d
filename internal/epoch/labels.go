package epoch

import "AtxEngine/internal/domain/models"

// Label derives the human-readable classification for an epoch from its
// trigger flags. Deterministic: the same flags always label the same way.
func Label(triggerFlags []string) string {
	has := make(map[string]bool, len(triggerFlags))
	for _, f := range triggerFlags {
		has[f] = true
	}
	risk := has[models.FlagRiskIntegrityLow]
	vol := has[models.FlagBehaviouralVolatilityHigh]
	switch {
	case risk && vol:
		return "risk integrity and behavioural volatility disruption"
	case risk:
		return "risk integrity disruption"
	case vol:
		return "behavioural volatility disruption"
	case has[models.FlagDisciplineLow]:
		return "discipline disruption"
	default:
		return "behavioural phase shift"
	}
}
