package models

import "time"

// AccountState is the durable per-account record behind the epoch detector.
// It is only ever rewritten as a whole through the epoch transition function,
// under the per-account writer lock.
type AccountState struct {
	AccountID string `json:"accountId"`
	// Closed (and the single open, if any) epochs, oldest first. Append-only.
	Epochs []Epoch `json:"epochs"`
	// Index into Epochs of the open epoch, -1 when none.
	OpenIdx     int   `json:"openIdx"`
	NextEpochID int64 `json:"nextEpochId"`
	// Consecutive disrupted observations while provisional.
	DisruptStreak int `json:"disruptStreak"`
	// Consecutive clear observations while a confirmed epoch is open.
	ClearStreak int       `json:"clearStreak"`
	Baseline    *Baseline `json:"baseline,omitempty"`
	Momentum    Momentum  `json:"momentum"`
	// Day of the last applied observation; transitions are idempotent per day.
	LastObservedDay time.Time `json:"lastObservedDay"`
	// Version for optimistic concurrency on the state document.
	Version int64 `json:"version"`
}

// NewAccountState returns the zero machine state for an account.
func NewAccountState(accountID string) *AccountState {
	return &AccountState{AccountID: accountID, OpenIdx: -1, NextEpochID: 1}
}

// OpenEpoch returns the currently open epoch, or nil.
func (s *AccountState) OpenEpoch() *Epoch {
	if s.OpenIdx < 0 || s.OpenIdx >= len(s.Epochs) {
		return nil
	}
	return &s.Epochs[s.OpenIdx]
}

// ConfirmedCount returns the number of non-provisional epochs on record.
func (s *AccountState) ConfirmedCount() int {
	n := 0
	for i := range s.Epochs {
		if !s.Epochs[i].Provisional {
			n++
		}
	}
	return n
}
