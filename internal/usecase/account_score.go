package usecase

import (
	"context"
	"sort"
	"time"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"
	"AtxEngine/internal/maturity"
	"AtxEngine/internal/scoring"
	"AtxEngine/internal/trend"
	"AtxEngine/pkg/util"
)

// ScoreReader serves the read side of the ATX API: per-account scores,
// trend series, and single-day drilldowns. It never writes state.
type ScoreReader struct {
	trades domrepo.TradeStore
	states domrepo.StateStore
	now    func() time.Time
}

// NewScoreReader creates a new ScoreReader instance.
func NewScoreReader(trades domrepo.TradeStore, states domrepo.StateStore) *ScoreReader {
	return &ScoreReader{trades: trades, states: states, now: time.Now}
}

// GetAccountATX scores the requested timeframe window. The "epoch" timeframe
// follows the currently open epoch when one exists and falls back to the
// trailing month otherwise.
func (r *ScoreReader) GetAccountATX(ctx context.Context, req *models.AccountATXRequest) (*models.AccountATXResponse, error) {
	now := r.now().UTC()
	sources := util.SplitCSV(req.Sources)

	st, err := r.states.Load(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	open := st.OpenEpoch()

	var from time.Time
	switch req.Timeframe {
	case "weekly":
		from = now.AddDate(0, 0, -7)
	case "monthly":
		from = now.AddDate(0, 0, -30)
	default: // epoch
		if open != nil {
			from = open.StartedAt
		} else {
			from = now.AddDate(0, 0, -30)
		}
	}

	windowTrades, err := r.trades.Query(ctx, req.AccountID, from, now, sources)
	if err != nil {
		return nil, err
	}

	snap := scoring.Compute(windowTrades)
	obs, err := r.observation(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	resp := &models.AccountATXResponse{
		AccountID:      req.AccountID,
		TradeCount:     len(windowTrades),
		ATX:            snap,
		Commentary:     trend.Commentary(&snap, len(windowTrades)),
		Observation:    obs,
		Maturity:       obs.Band,
		BaselineLocked: st.Baseline.Locked(),
	}
	if open != nil {
		e := *open
		resp.Epoch = &e
	}
	return resp, nil
}

// GetTrend builds the bucketed trend series plus digest for an account.
func (r *ScoreReader) GetTrend(ctx context.Context, req *models.TrendRequest) (*models.TrendResponse, error) {
	now := r.now().UTC()
	sources := util.SplitCSV(req.Sources)
	iv := domrepo.NormalizeInterval(req.Interval)

	buckets := domrepo.PrevBuckets(now, iv, req.Limit)
	from := buckets[0]

	windowTrades, err := r.trades.Query(ctx, req.AccountID, from, now, sources)
	if err != nil {
		return nil, err
	}
	st, err := r.states.Load(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	obs, err := r.observation(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	points := trend.BuildPoints(windowTrades, iv, req.Limit, now)
	bySource := trend.BuildBySource(windowTrades, iv, req.Limit, now)
	series := make([]string, 0, len(bySource))
	for src := range bySource {
		series = append(series, src)
	}
	sort.Strings(series)

	return &models.TrendResponse{
		AccountID:      req.AccountID,
		Interval:       string(iv),
		Points:         points,
		BySource:       bySource,
		SeriesBySource: series,
		Digest:         trend.BuildDigest(points),
		Epochs:         st.Epochs,
		Observation:    obs,
		Maturity:       obs.Band,
		BaselineLocked: st.Baseline.Locked(),
		Baseline:       st.Baseline,
	}, nil
}

// GetDay scores a single calendar day. Zero trades yields a null snapshot,
// never a zero score.
func (r *ScoreReader) GetDay(ctx context.Context, req *models.DayRequest) (*models.DayResponse, error) {
	day, ok := util.ParseDay(req.Date)
	if !ok {
		// validated upstream; defensive fallthrough to empty day
		day = util.DayStart(r.now())
	}
	sources := util.SplitCSV(req.Sources)

	dayTrades, err := r.trades.Query(ctx, req.AccountID, day, util.DayEnd(day), sources)
	if err != nil {
		return nil, err
	}

	resp := &models.DayResponse{
		AccountID:  req.AccountID,
		Date:       day.Format(util.DayFormat),
		Sources:    sources,
		TradeCount: len(dayTrades),
	}
	if len(dayTrades) == 0 {
		resp.Commentary = trend.Commentary(nil, 0)
		return resp, nil
	}
	snap := scoring.Compute(dayTrades)
	resp.ATX = &snap
	resp.Commentary = trend.Commentary(&snap, len(dayTrades))
	return resp, nil
}

// AccountSources lists the distinct source tags seen for an account.
func (r *ScoreReader) AccountSources(ctx context.Context, accountID string) ([]string, error) {
	return r.trades.Sources(ctx, accountID)
}

func (r *ScoreReader) observation(ctx context.Context, accountID string) (*models.ObservationMaturity, error) {
	totalTrades, activeDays, err := r.trades.Counts(ctx, accountID)
	if err != nil {
		return nil, err
	}
	obs := maturity.Classify(totalTrades, activeDays)
	return &obs, nil
}
