package epoch

import (
	"time"

	"AtxEngine/internal/domain/models"
)

// Confirmation and recovery windows, in consecutive daily observations.
// A disruption must persist for ConfirmWindow observations before the
// provisional epoch is confirmed; a confirmed epoch closes after
// RecoveryWindow consecutive clear observations.
const (
	ConfirmWindow  = 3
	RecoveryWindow = 2
)

// Disruption flags that can open an epoch.
var disruptionFlags = []string{
	models.FlagDisciplineLow,
	models.FlagRiskIntegrityLow,
	models.FlagBehaviouralVolatilityHigh,
}

// Observation is one scored daily bucket fed to the machine. Days without
// trades produce no observation and never advance the machine.
type Observation struct {
	Day        time.Time
	Snapshot   models.ATXSnapshot
	TradeCount int
}

// DisruptionFlags returns the subset of the snapshot's flags that count as
// disruptions, in the snapshot's order.
func DisruptionFlags(s *models.ATXSnapshot) []string {
	var out []string
	for _, f := range s.Flags {
		for _, d := range disruptionFlags {
			if f == d {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Advance applies one observation to the machine state. It mutates st in
// place and returns the lifecycle events to publish. It is a pure function
// of (st, obs): no clock, no storage. Observations at or before the last
// applied day are ignored, which makes replays idempotent.
//
// Epoch history is append-only: closing never removes an epoch. The one
// exception is a provisional epoch whose disruption clears before the
// confirmation window - it is discarded without trace, per product rules.
func Advance(st *models.AccountState, obs Observation) []models.EpochEvent {
	if !obs.Day.After(st.LastObservedDay) {
		return nil
	}
	st.LastObservedDay = obs.Day

	disrupted := DisruptionFlags(&obs.Snapshot)
	var events []models.EpochEvent

	open := st.OpenEpoch()
	switch {
	case open == nil:
		if len(disrupted) > 0 {
			snap := obs.Snapshot
			e := models.Epoch{
				ID:            st.NextEpochID,
				AccountID:     st.AccountID,
				StartedAt:     obs.Day,
				TriggerFlags:  disrupted,
				Provisional:   true,
				StartSnapshot: &snap,
				AvgScore:      snap.Score,
				Observations:  1,
			}
			st.NextEpochID++
			st.Epochs = append(st.Epochs, e)
			st.OpenIdx = len(st.Epochs) - 1
			st.DisruptStreak = 1
			st.ClearStreak = 0
		}

	case open.Provisional:
		if len(disrupted) > 0 {
			st.DisruptStreak++
			foldObservation(open, &obs)
			if st.DisruptStreak >= ConfirmWindow {
				open.Provisional = false
				events = append(events, models.EpochEvent{
					AccountID: st.AccountID,
					EpochID:   open.ID,
					Kind:      "confirmed",
					At:        obs.Day,
					Flags:     open.TriggerFlags,
				})
			}
		} else {
			// Retraction: the provisional epoch never happened.
			st.Epochs = st.Epochs[:st.OpenIdx]
			st.OpenIdx = -1
			st.NextEpochID--
			st.DisruptStreak = 0
		}

	default: // open and confirmed
		foldObservation(open, &obs)
		if len(disrupted) > 0 {
			st.ClearStreak = 0
		} else {
			st.ClearStreak++
			if st.ClearStreak >= RecoveryWindow {
				end := obs.Day
				reason := Label(open.TriggerFlags)
				snap := obs.Snapshot
				open.EndedAt = &end
				open.EndedReason = &reason
				open.EndSnapshot = &snap
				st.OpenIdx = -1
				st.ClearStreak = 0
				st.DisruptStreak = 0
				events = append(events, models.EpochEvent{
					AccountID: st.AccountID,
					EpochID:   open.ID,
					Kind:      "closed",
					At:        obs.Day,
					Reason:    reason,
				})
			}
		}
	}

	// Momentum is a separate, resettable streak of clear observations. It
	// never touches the epoch log.
	if len(disrupted) == 0 {
		st.Momentum.StreakDays++
	} else {
		st.Momentum.StreakDays = 0
	}
	st.Momentum.UpdatedAt = obs.Day

	return events
}

func foldObservation(e *models.Epoch, obs *Observation) {
	n := float64(e.Observations)
	e.AvgScore = (e.AvgScore*n + obs.Snapshot.Score) / (n + 1)
	e.Observations++
}
