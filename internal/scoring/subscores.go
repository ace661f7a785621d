package scoring

import (
	"math"
	"time"

	"AtxEngine/internal/domain/models"
)

// NeutralScore is returned by every subscore when the window holds no
// trades. Callers must pair it with the INSUFFICIENT_DATA flag instead of
// interpreting it as a real signal.
const NeutralScore = 50.0

// Discipline penalizes trades that ignore the trader's own risk parameters:
// positions without a stop-loss and positions sized far beyond the trader's
// usual quantity. Higher is better.
func Discipline(trades []*models.Trade) float64 {
	if len(trades) == 0 {
		return NeutralScore
	}
	noStop := 0
	for _, t := range trades {
		if t.StopLoss == nil {
			noStop++
		}
	}
	qtys := quantities(trades)
	med := median(qtys)
	oversized := 0
	if med > 0 {
		for _, q := range qtys {
			if q > 2*med {
				oversized++
			}
		}
	}
	n := float64(len(trades))
	return clamp(100 - 60*(float64(noStop)/n) - 40*(float64(oversized)/n))
}

// RiskIntegrity penalizes missing protective orders and inconsistent
// position sizing (coefficient of variation of notional). Higher is better.
func RiskIntegrity(trades []*models.Trade) float64 {
	if len(trades) == 0 {
		return NeutralScore
	}
	protected := 0
	notionals := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.HasProtection() {
			protected++
		}
		notionals = append(notionals, t.Notional())
	}
	protFrac := float64(protected) / float64(len(trades))
	cv := math.Min(1, coefVar(notionals))
	return clamp(100 - 50*(1-protFrac) - 50*cv)
}

// ExecutionStability penalizes erratic entry timing (dispersion of gaps
// between consecutive trades) and order-type switching. Higher is better.
func ExecutionStability(trades []*models.Trade) float64 {
	if len(trades) == 0 {
		return NeutralScore
	}
	gaps := make([]float64, 0, len(trades)-1)
	switches := 0
	for i := 1; i < len(trades); i++ {
		gap := trades[i].Timestamp.Sub(trades[i-1].Timestamp).Seconds()
		if gap > 0 {
			gaps = append(gaps, gap)
		}
		if trades[i].OrderType != trades[i-1].OrderType {
			switches++
		}
	}
	gapCV := math.Min(1, coefVar(gaps)/2)
	switchRate := 0.0
	if len(trades) > 1 {
		switchRate = float64(switches) / float64(len(trades)-1)
	}
	return clamp(100 - 50*gapCV - 50*switchRate)
}

// BehaviouralVolatility measures instability of trading frequency and
// sizing over the window. LOWER is better; this is the one bad-when-high
// subscore.
func BehaviouralVolatility(trades []*models.Trade) float64 {
	if len(trades) == 0 {
		return NeutralScore
	}
	counts := dailyCounts(trades)
	cvCounts := math.Min(1, coefVar(counts))
	cvQty := math.Min(1, coefVar(quantities(trades)))
	return clamp(100 * math.Min(1, 0.5*cvCounts+0.5*cvQty))
}

// Consistency measures how repeatable sizing and holding duration are
// across the window. Tight variance scores high.
func Consistency(trades []*models.Trade) float64 {
	if len(trades) == 0 {
		return NeutralScore
	}
	durations := make([]float64, 0, len(trades))
	for _, t := range trades {
		if d := t.HoldingDuration(); d > 0 {
			durations = append(durations, d.Seconds())
		}
	}
	cvQty := math.Min(1, coefVar(quantities(trades)))
	cvDur := math.Min(1, coefVar(durations))
	return clamp(100 * (1 - math.Min(1, 0.5*cvQty+0.5*cvDur)))
}

func quantities(trades []*models.Trade) []float64 {
	out := make([]float64, 0, len(trades))
	for _, t := range trades {
		out = append(out, t.Quantity)
	}
	return out
}

// dailyCounts buckets trades per UTC day and returns one count per day that
// actually saw trades.
func dailyCounts(trades []*models.Trade) []float64 {
	byDay := make(map[time.Time]int)
	for _, t := range trades {
		day := t.Timestamp.UTC().Truncate(24 * time.Hour)
		byDay[day]++
	}
	out := make([]float64, 0, len(byDay))
	for _, c := range byDay {
		out = append(out, float64(c))
	}
	return out
}
