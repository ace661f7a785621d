package models

import "time"

// Epoch is a detected behavioural regime. History is append-only: a closed
// epoch is never removed, only stops extending.
type Epoch struct {
	ID            int64        `json:"id"`
	AccountID     string       `json:"accountId"`
	StartedAt     time.Time    `json:"startedAt"`
	EndedAt       *time.Time   `json:"endedAt"`
	TriggerFlags  []string     `json:"triggerFlags"`
	EndedReason   *string      `json:"endedReason"`
	Provisional   bool         `json:"provisional"`
	StartSnapshot *ATXSnapshot `json:"startSnapshot,omitempty"`
	EndSnapshot   *ATXSnapshot `json:"endSnapshot,omitempty"`
	// Running mean of the aggregate score across the epoch's observations,
	// frozen by a baseline lock.
	AvgScore float64 `json:"avgScore"`
	// Number of scored observations folded into AvgScore.
	Observations int `json:"observations"`
}

// Open reports whether the epoch is still extending.
func (e *Epoch) Open() bool { return e.EndedAt == nil }

// Baseline locks one epoch's average ATX as the long-term reference.
type Baseline struct {
	EpochID  int64      `json:"epochId"`
	Score    float64    `json:"score"`
	LockedAt *time.Time `json:"lockedAt"`
}

// Locked reports whether the baseline reference is frozen.
func (b *Baseline) Locked() bool { return b != nil && b.LockedAt != nil }

// Momentum is the explicitly resettable streak counter. It is not part of
// the epoch log and resetting it never touches epoch history.
type Momentum struct {
	StreakDays int        `json:"streakDays"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ResetAt    *time.Time `json:"resetAt,omitempty"`
}

// EpochEvent is published on epoch lifecycle transitions.
type EpochEvent struct {
	AccountID string    `json:"accountId"`
	EpochID   int64     `json:"epochId"`
	Kind      string    `json:"kind"` // "confirmed" or "closed"
	At        time.Time `json:"at"`
	Flags     []string  `json:"flags,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
