package trend

import (
	"time"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"
	"AtxEngine/internal/scoring"
)

// BuildPoints buckets trades into the given interval over the trailing
// buckets ending at now, scoring each non-empty bucket independently.
// Buckets with zero trades are left out entirely: absence means "no
// signal", never a zero score.
func BuildPoints(trades []*models.Trade, iv domrepo.Interval, lookback int, now time.Time) []models.TrendPoint {
	buckets := domrepo.PrevBuckets(now, iv, lookback)
	if len(buckets) == 0 {
		return nil
	}
	grouped := make(map[time.Time][]*models.Trade, len(buckets))
	first := buckets[0]
	for _, t := range trades {
		b := domrepo.BucketStart(t.Timestamp, iv)
		if b.Before(first) {
			continue
		}
		grouped[b] = append(grouped[b], t)
	}
	out := make([]models.TrendPoint, 0, len(grouped))
	for _, b := range buckets {
		bucketTrades, ok := grouped[b]
		if !ok {
			continue
		}
		snap := scoring.Compute(bucketTrades)
		out = append(out, models.TrendPoint{
			Bucket:     b,
			TradeCount: len(bucketTrades),
			ATX:        &snap,
		})
	}
	return out
}

// BuildBySource repeats the bucketing per distinct trade source, enabling
// per-platform comparison.
func BuildBySource(trades []*models.Trade, iv domrepo.Interval, lookback int, now time.Time) map[string][]models.TrendPoint {
	bySource := make(map[string][]*models.Trade)
	for _, t := range trades {
		bySource[t.Source] = append(bySource[t.Source], t)
	}
	out := make(map[string][]models.TrendPoint, len(bySource))
	for src, srcTrades := range bySource {
		out[src] = BuildPoints(srcTrades, iv, lookback, now)
	}
	return out
}
