package repository

import "time"

// Interval represents trend bucketing resolutions.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default bucketing resolution.
func DefaultInterval() Interval { return IntervalDaily }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// BucketStart truncates t to the start of its bucket in UTC. Weekly buckets
// start on Monday, monthly on the first of the month.
func BucketStart(t time.Time, iv Interval) time.Time {
	t = t.UTC()
	switch iv {
	case IntervalWeekly:
		day := t.Truncate(24 * time.Hour)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case IntervalMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(24 * time.Hour)
	}
}

// NextBucket returns the start of the bucket after b.
func NextBucket(b time.Time, iv Interval) time.Time {
	switch iv {
	case IntervalWeekly:
		return b.AddDate(0, 0, 7)
	case IntervalMonthly:
		return b.AddDate(0, 1, 0)
	default:
		return b.AddDate(0, 0, 1)
	}
}

// PrevBuckets returns the starts of the trailing n buckets ending at the
// bucket containing now, oldest first.
func PrevBuckets(now time.Time, iv Interval, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	b := BucketStart(now, iv)
	for i := n - 1; i >= 0; i-- {
		out[i] = b
		switch iv {
		case IntervalWeekly:
			b = b.AddDate(0, 0, -7)
		case IntervalMonthly:
			b = b.AddDate(0, -1, 0)
		default:
			b = b.AddDate(0, 0, -1)
		}
	}
	return out
}
