package maturity

import (
	"fmt"

	"AtxEngine/internal/domain/models"
)

// History thresholds per dimension. The band is the minimum of the two
// dimensions: many trades over few days is not yet established.
const (
	DevelopingTrades  = 20
	DevelopingDays    = 10
	EstablishedTrades = 100
	EstablishedDays   = 45
)

// Classify derives the observation maturity from total trade count and
// distinct active days. Recomputed on every query; never persisted.
func Classify(totalTrades, activeDays int) models.ObservationMaturity {
	band := minBand(bandForTrades(totalTrades), bandForDays(activeDays))
	switch band {
	case models.MaturityEstablished:
		return models.ObservationMaturity{
			Band:  band,
			Label: "Established",
			Memo:  "Enough observation history to lock a baseline and trust long-term signals.",
		}
	case models.MaturityDeveloping:
		return models.ObservationMaturity{
			Band:  band,
			Label: "Developing",
			Memo: fmt.Sprintf("Preliminary trends only; %d more trades and %d more active days until established.",
				remaining(EstablishedTrades, totalTrades), remaining(EstablishedDays, activeDays)),
		}
	default:
		return models.ObservationMaturity{
			Band:  band,
			Label: "Initial",
			Memo:  "Too little history to trust any signal yet.",
		}
	}
}

func bandForTrades(n int) models.MaturityBand {
	switch {
	case n >= EstablishedTrades:
		return models.MaturityEstablished
	case n >= DevelopingTrades:
		return models.MaturityDeveloping
	default:
		return models.MaturityInitial
	}
}

func bandForDays(n int) models.MaturityBand {
	switch {
	case n >= EstablishedDays:
		return models.MaturityEstablished
	case n >= DevelopingDays:
		return models.MaturityDeveloping
	default:
		return models.MaturityInitial
	}
}

func minBand(a, b models.MaturityBand) models.MaturityBand {
	if a.AtLeast(b) {
		return b
	}
	return a
}

func remaining(threshold, have int) int {
	if have >= threshold {
		return 0
	}
	return threshold - have
}
