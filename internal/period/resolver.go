package period

import (
	"time"

	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/logger"
)

// Granularity is the date_trunc unit a window is grouped by
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// Window is a fixed-day query window. End is always the last second of the
// day before the reference time, so partially ingested same-day partitions
// are never queried.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// BucketWindow is a rolling-bucket query window used by trend queries.
// Buckets is the number of buckets of Granularity the window spans.
type BucketWindow struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
	Buckets     int
}

// windowDays maps each period key to its fixed window length in days
var windowDays = map[domain.PeriodKey]int{
	domain.PeriodDay:     1,
	domain.PeriodWeek:    7,
	domain.PeriodMonth:   30,
	domain.PeriodQuarter: 90,
}

// normalize falls back to day on an unrecognized key. The caller is never
// failed for a bad selector; the fallback is logged instead.
func normalize(key domain.PeriodKey) domain.PeriodKey {
	if !domain.IsValidPeriodKey(key) {
		logger.Warn("unknown period key, falling back to day",
			zap.String("period", string(key)),
		)
		return domain.PeriodDay
	}
	return key
}

// endOfYesterday returns 23:59:59 of the day before the reference time
func endOfYesterday(now time.Time) time.Time {
	y := now.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 23, 59, 59, 0, now.Location())
}

// startOfDay truncates a time to midnight in its own location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns midnight of the Monday of the week containing t
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday-anchored week
	}
	return startOfDay(t.AddDate(0, 0, -(weekday - 1)))
}

// Resolve maps a period selector to a fixed-day window ending yesterday.
// The window covers exactly the key's day count: 1, 7, 30 or 90 calendar
// days, grouped per day.
func Resolve(key domain.PeriodKey, now time.Time) Window {
	key = normalize(key)

	end := endOfYesterday(now)
	days := windowDays[key]
	start := startOfDay(end).AddDate(0, 0, -(days - 1))

	return Window{
		Start:       start,
		End:         end,
		Granularity: GranularityDay,
	}
}

// ResolveBuckets maps a period selector to a rolling-bucket window for
// trend queries: day spans 7 one-day buckets, week spans 4 Monday-anchored
// weeks, month spans 3 calendar months, quarter spans 12 calendar months
// grouped into quarters.
func ResolveBuckets(key domain.PeriodKey, now time.Time) BucketWindow {
	key = normalize(key)

	end := endOfYesterday(now)

	switch key {
	case domain.PeriodWeek:
		return BucketWindow{
			Start:       mondayOf(end.AddDate(0, 0, -7*3)),
			End:         end,
			Granularity: GranularityWeek,
			Buckets:     4,
		}
	case domain.PeriodMonth:
		first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		return BucketWindow{
			Start:       first.AddDate(0, -2, 0),
			End:         end,
			Granularity: GranularityMonth,
			Buckets:     3,
		}
	case domain.PeriodQuarter:
		first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		return BucketWindow{
			Start:       first.AddDate(0, -11, 0),
			End:         end,
			Granularity: GranularityQuarter,
			Buckets:     12,
		}
	default:
		return BucketWindow{
			Start:       startOfDay(end).AddDate(0, 0, -6),
			End:         end,
			Granularity: GranularityDay,
			Buckets:     7,
		}
	}
}
