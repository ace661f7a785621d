package usecase

import (
	"context"
	"fmt"
	"time"

	"AtxEngine/internal/domain/models"
	drepo "AtxEngine/internal/domain/repository"
	"AtxEngine/internal/epoch"
	"AtxEngine/internal/maturity"
	"AtxEngine/internal/scoring"
	applogger "AtxEngine/pkg/logger"
	"AtxEngine/pkg/queue"
	"AtxEngine/pkg/util"
)

// EpochAdvancer applies daily observations to the per-account epoch machine.
// All state writes go through the per-account lock, so concurrent jobs for
// the same account serialize instead of interleaving.
type EpochAdvancer struct {
	trades  drepo.TradeStore
	states  drepo.StateStore
	pub     drepo.EpochPublisher
	metrics drepo.Metrics
	log     *applogger.Logger

	lockTTL      time.Duration
	lockRetryMax int
}

// NewEpochAdvancer creates a new EpochAdvancer instance.
func NewEpochAdvancer(
	trades drepo.TradeStore,
	states drepo.StateStore,
	pub drepo.EpochPublisher,
	metrics drepo.Metrics,
	log *applogger.Logger,
	lockTTL time.Duration,
	lockRetryMax int,
) *EpochAdvancer {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	if lockRetryMax <= 0 {
		lockRetryMax = 5
	}
	return &EpochAdvancer{
		trades:       trades,
		states:       states,
		pub:          pub,
		metrics:      metrics,
		log:          log,
		lockTTL:      lockTTL,
		lockRetryMax: lockRetryMax,
	}
}

// AdvanceDay scores one account day and feeds it to the epoch machine. Days
// with zero trades produce no observation and leave the machine untouched.
// Replays of already-applied days are no-ops.
func (a *EpochAdvancer) AdvanceDay(ctx context.Context, accountID string, day time.Time) error {
	day = util.DayStart(day)

	unlock, err := a.lockWithRetry(ctx, accountID)
	if err != nil {
		return err
	}
	defer unlock()

	st, err := a.states.Load(ctx, accountID)
	if err != nil {
		a.metrics.RecordError("advance_load_state")
		return err
	}
	if !day.After(st.LastObservedDay) {
		return nil // already applied
	}

	dayTrades, err := a.trades.Query(ctx, accountID, day, util.DayEnd(day), nil)
	if err != nil {
		a.metrics.RecordError("advance_query")
		return err
	}
	if len(dayTrades) == 0 {
		return nil // no trades, no observation
	}

	snap := scoring.Compute(dayTrades)
	events := epoch.Advance(st, epoch.Observation{
		Day:        day,
		Snapshot:   snap,
		TradeCount: len(dayTrades),
	})

	for _, ev := range events {
		a.metrics.RecordEpochTransition(ev.Kind)
		if err := a.pub.Publish(ctx, &ev); err != nil {
			// State still advances; the event stream is best-effort.
			a.metrics.RecordError("advance_publish")
			a.log.Error("epoch event publish failed",
				applogger.String("account", accountID),
				applogger.String("kind", ev.Kind),
				applogger.Error(err),
			)
		} else {
			a.log.Info("epoch "+ev.Kind,
				applogger.String("account", accountID),
				applogger.Int64("epoch_id", ev.EpochID),
			)
		}
	}

	// A closed epoch may unlock the baseline; try opportunistically.
	if len(events) > 0 && !st.Baseline.Locked() {
		if band, err := a.maturityBand(ctx, accountID); err == nil {
			if ok, _ := epoch.TryLockBaseline(st, band, day); ok {
				a.log.Info("baseline locked",
					applogger.String("account", accountID),
					applogger.Int64("epoch_id", st.Baseline.EpochID),
				)
			}
		}
	}

	if err := a.states.Save(ctx, st); err != nil {
		a.metrics.RecordError("advance_save_state")
		return err
	}
	return nil
}

// LockBaseline explicitly locks the baseline for an account.
func (a *EpochAdvancer) LockBaseline(ctx context.Context, accountID string, at time.Time) (*models.AccountState, bool, string, error) {
	unlock, err := a.lockWithRetry(ctx, accountID)
	if err != nil {
		return nil, false, "", err
	}
	defer unlock()

	st, err := a.states.Load(ctx, accountID)
	if err != nil {
		return nil, false, "", err
	}
	band, err := a.maturityBand(ctx, accountID)
	if err != nil {
		return nil, false, "", err
	}
	locked, reason := epoch.TryLockBaseline(st, band, at)
	if locked {
		if err := a.states.Save(ctx, st); err != nil {
			return nil, false, "", err
		}
	}
	return st, locked, reason, nil
}

// ResetMomentum clears the momentum streak for an account.
func (a *EpochAdvancer) ResetMomentum(ctx context.Context, accountID string, at time.Time) (*models.AccountState, error) {
	unlock, err := a.lockWithRetry(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	st, err := a.states.Load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	epoch.ResetMomentum(st, at)
	if err := a.states.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (a *EpochAdvancer) maturityBand(ctx context.Context, accountID string) (models.MaturityBand, error) {
	trades, days, err := a.trades.Counts(ctx, accountID)
	if err != nil {
		return models.MaturityInitial, err
	}
	return maturity.Classify(trades, days).Band, nil
}

func (a *EpochAdvancer) lockWithRetry(ctx context.Context, accountID string) (func(), error) {
	backoff := 50 * time.Millisecond
	for attempt := 0; ; attempt++ {
		unlock, ok, err := a.states.Lock(ctx, accountID, a.lockTTL)
		if err != nil {
			a.metrics.RecordError("advance_lock")
			return nil, err
		}
		if ok {
			return unlock, nil
		}
		if attempt >= a.lockRetryMax {
			a.metrics.RecordError("advance_lock_contended")
			return nil, fmt.Errorf("account %s lock contended", accountID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < time.Second {
			backoff *= 2
		}
	}
}

// AdvanceJob adapts the advancer to the Redis job queue.
type AdvanceJob struct {
	advancer *EpochAdvancer
}

func NewAdvanceJob(advancer *EpochAdvancer) *AdvanceJob {
	return &AdvanceJob{advancer: advancer}
}

func (j *AdvanceJob) Name() string { return "epoch-advancer" }
func (j *AdvanceJob) Type() string { return AdvanceJobType }

func (j *AdvanceJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[AdvancePayload](payload)
	if err != nil {
		return err
	}
	day, ok := util.ParseDay(p.Day)
	if !ok {
		return fmt.Errorf("invalid day %q", p.Day)
	}
	return j.advancer.AdvanceDay(ctx, p.AccountID, day)
}

var _ queue.Job = (*AdvanceJob)(nil)
