package trend

import (
	"fmt"
	"strings"

	"AtxEngine/internal/domain/models"
)

// Commentary renders a short, non-directive summary for a snapshot. Same
// snapshot, same text: no advice, no clock.
func Commentary(snap *models.ATXSnapshot, tradeCount int) string {
	if snap == nil || tradeCount == 0 {
		return "No trades in this window; no behavioural signal computed."
	}
	if snap.HasFlag(models.FlagInsufficientData) {
		return fmt.Sprintf("Only %d trades in this window; treat the score as provisional.", tradeCount)
	}
	var notes []string
	if snap.HasFlag(models.FlagRiskIntegrityLow) {
		notes = append(notes, "risk integrity below its usual range")
	}
	if snap.HasFlag(models.FlagDisciplineLow) {
		notes = append(notes, "discipline below its usual range")
	}
	if snap.HasFlag(models.FlagBehaviouralVolatilityHigh) {
		notes = append(notes, "elevated behavioural volatility")
	}
	if snap.HasFlag(models.FlagExecutionStabilityLow) {
		notes = append(notes, "unstable execution timing")
	}
	if len(notes) == 0 {
		return fmt.Sprintf("ATX %.0f across %d trades with no threshold breaches.", snap.Score, tradeCount)
	}
	return fmt.Sprintf("ATX %.0f across %d trades; observed: %s.", snap.Score, tradeCount, strings.Join(notes, ", "))
}
