package epoch

import (
	"time"

	"AtxEngine/internal/domain/models"
)

// TryLockBaseline locks the baseline onto the first closed confirmed epoch.
// The lock requires established maturity and is a no-op once held: there is
// no implicit re-lock. Returns whether a lock was taken and a reason when
// it was not.
func TryLockBaseline(st *models.AccountState, band models.MaturityBand, at time.Time) (bool, string) {
	if st.Baseline.Locked() {
		return false, "baseline already locked"
	}
	if !band.AtLeast(models.MaturityEstablished) {
		return false, "observation maturity not yet established"
	}
	for i := range st.Epochs {
		e := &st.Epochs[i]
		if e.Provisional || e.Open() {
			continue
		}
		locked := at
		st.Baseline = &models.Baseline{
			EpochID:  e.ID,
			Score:    e.AvgScore,
			LockedAt: &locked,
		}
		return true, ""
	}
	return false, "no closed epoch to reference"
}

// ResetMomentum clears the momentum counter. Epoch history is untouched.
func ResetMomentum(st *models.AccountState, at time.Time) {
	st.Momentum.StreakDays = 0
	st.Momentum.UpdatedAt = at
	reset := at
	st.Momentum.ResetAt = &reset
}
