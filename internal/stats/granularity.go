// Package stats turns filtered records into chart data: time-bucket series and
// per-category breakdowns.
package stats

import (
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/daterange"
)

type Granularity string

const (
	GranularityWeek   Granularity = "week"
	GranularityMonth  Granularity = "month"
	GranularityYear   Granularity = "year"
	GranularityCustom Granularity = "custom"
	GranularityAll    Granularity = "all"
)

// InferGranularity picks the bucket size for a range. The shape of the range is
// authoritative; the preset only short-circuits to custom. Time of day is
// ignored, so a week stored as Monday 00:00 through Sunday 23:59 still counts.
// The week check looks at shape only and is never compared against now, so any
// Monday through Sunday range buckets by weekday, past weeks included.
func InferGranularity(r *daterange.Range, preset daterange.Preset) Granularity {
	if r == nil {
		return GranularityAll
	}

	if preset == daterange.PresetCustom {
		return GranularityCustom
	}

	start := daterange.StartOfDay(r.Start)
	end := daterange.StartOfDay(r.End)

	switch {
	case start.Weekday() == time.Monday && daterange.DaysBetween(start, end) == 6:
		return GranularityWeek
	case start.Day() == 1 && daterange.SameDay(end, daterange.EndOfMonth(start)):
		return GranularityMonth
	case start.YearDay() == 1 && daterange.SameDay(end, daterange.EndOfYear(start)):
		return GranularityYear
	}

	return GranularityCustom
}
