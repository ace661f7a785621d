package trend

import (
	"fmt"
	"math"

	"AtxEngine/internal/domain/models"
)

// Maximum number of emerging flags surfaced in a digest watch list.
const maxWatchList = 3

// BuildDigest summarizes the latest two scored buckets: a non-directive
// summary line, the subscore with the largest absolute move, and a bounded
// watch list of flags that appeared in the latest bucket. Regenerated per
// call; never cached beyond the response cache TTL.
func BuildDigest(points []models.TrendPoint) *models.Digest {
	scored := make([]models.TrendPoint, 0, len(points))
	for _, p := range points {
		if p.ATX != nil {
			scored = append(scored, p)
		}
	}
	if len(scored) == 0 {
		return nil
	}
	latest := scored[len(scored)-1]
	d := &models.Digest{
		Summary: fmt.Sprintf("Latest scored bucket: ATX %.0f over %d trades.",
			latest.ATX.Score, latest.TradeCount),
	}
	if len(scored) < 2 {
		d.WatchList = watchList(nil, latest.ATX.Flags)
		return d
	}
	prev := scored[len(scored)-2]
	driver, delta := topDriver(prev.ATX.Subscores, latest.ATX.Subscores)
	d.TopDriver = driver
	d.Delta = delta
	d.WatchList = watchList(prev.ATX.Flags, latest.ATX.Flags)

	direction := "held steady"
	if latest.ATX.Score > prev.ATX.Score {
		direction = "moved up"
	} else if latest.ATX.Score < prev.ATX.Score {
		direction = "moved down"
	}
	d.Summary = fmt.Sprintf("ATX %s from %.0f to %.0f; largest move in %s (%+.0f).",
		direction, prev.ATX.Score, latest.ATX.Score, driver, delta)
	return d
}

// topDriver returns the subscore name with the largest absolute change
// between two snapshots, and the signed change.
func topDriver(prev, cur models.Subscores) (string, float64) {
	deltas := []struct {
		name string
		d    float64
	}{
		{"discipline", cur.Discipline - prev.Discipline},
		{"riskIntegrity", cur.RiskIntegrity - prev.RiskIntegrity},
		{"executionStability", cur.ExecutionStability - prev.ExecutionStability},
		{"behaviouralVolatility", cur.BehaviouralVolatility - prev.BehaviouralVolatility},
		{"consistency", cur.Consistency - prev.Consistency},
	}
	best := deltas[0]
	for _, c := range deltas[1:] {
		if math.Abs(c.d) > math.Abs(best.d) {
			best = c
		}
	}
	return best.name, best.d
}

// watchList returns flags present in the latest bucket but not the previous
// one, capped.
func watchList(prevFlags, curFlags []string) []string {
	seen := make(map[string]bool, len(prevFlags))
	for _, f := range prevFlags {
		seen[f] = true
	}
	var out []string
	for _, f := range curFlags {
		if !seen[f] {
			out = append(out, f)
			if len(out) == maxWatchList {
				break
			}
		}
	}
	return out
}
