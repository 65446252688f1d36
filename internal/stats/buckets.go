package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/daterange"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// customBuckets is the most windows a custom range is split into.
const customBuckets = 5

type Bucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Total float64   `json:"total"`
}

type Series struct {
	Granularity   Granularity `json:"granularity"`
	Buckets       []Bucket    `json:"buckets"`
	Total         float64     `json:"total"`
	PeakIndex     int         `json:"peakIndex"`
	PeriodAverage float64     `json:"periodAverage"`
}

// Bucketize sums |amount| of the records of type t into time buckets shaped by
// the range. now only matters for an all-time series over no data, which gets a
// single bucket for the current year.
func Bucketize(records []record.Record, t record.Type, r *daterange.Range, preset daterange.Preset, now time.Time) Series {
	g := InferGranularity(r, preset)

	var buckets []Bucket

	switch g {
	case GranularityAll:
		buckets = yearBuckets(records, t, now)
	case GranularityWeek:
		buckets = dayBuckets(r.Normalize())
	case GranularityMonth:
		buckets = windowBuckets(r.Normalize(), 7)
	case GranularityYear:
		buckets = monthBuckets(r.Normalize())
	default:
		nr := r.Normalize()
		width := int(math.Ceil(float64(nr.Days()) / customBuckets))
		buckets = windowBuckets(nr, width)
	}

	for _, rec := range records {
		if rec.Type != t || rec.Date.IsZero() {
			continue
		}

		if i := findBucket(buckets, rec.Date); i >= 0 {
			buckets[i].Total += math.Abs(rec.Amount)
		}
	}

	return summarize(g, buckets)
}

func summarize(g Granularity, buckets []Bucket) Series {
	s := Series{Granularity: g, Buckets: buckets, PeakIndex: -1}

	for i, b := range buckets {
		s.Total += b.Total
		if s.PeakIndex < 0 || b.Total > buckets[s.PeakIndex].Total {
			s.PeakIndex = i
		}
	}

	if len(buckets) > 0 && s.Total != 0 {
		s.PeriodAverage = s.Total / float64(len(buckets))
	}

	return s
}

// findBucket locates the bucket containing ts. Buckets are contiguous and
// ordered, so the first one ending at or after ts is the only candidate.
func findBucket(buckets []Bucket, ts time.Time) int {
	i := sort.Search(len(buckets), func(i int) bool {
		return !buckets[i].End.Before(ts)
	})

	if i < len(buckets) && !ts.Before(buckets[i].Start) {
		return i
	}

	return -1
}

func dayBuckets(r daterange.Range) []Bucket {
	var out []Bucket

	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, Bucket{
			Label: d.Format("Mon 2"),
			Start: d,
			End:   daterange.EndOfDay(d),
		})
	}

	return out
}

// windowBuckets splits r into consecutive windows of width days starting at
// r.Start, the last one clipped to r.End.
func windowBuckets(r daterange.Range, width int) []Bucket {
	if width < 1 {
		width = 1
	}

	var out []Bucket

	for start := r.Start; !start.After(r.End); start = start.AddDate(0, 0, width) {
		end := daterange.EndOfDay(start.AddDate(0, 0, width-1))
		if end.After(r.End) {
			end = r.End
		}

		out = append(out, Bucket{
			Label: spanLabel(start, end),
			Start: start,
			End:   end,
		})
	}

	return out
}

func monthBuckets(r daterange.Range) []Bucket {
	var out []Bucket

	for m := daterange.StartOfMonth(r.Start); !m.After(r.End); m = m.AddDate(0, 1, 0) {
		start, end := m, daterange.EndOfMonth(m)
		if start.Before(r.Start) {
			start = r.Start
		}

		if end.After(r.End) {
			end = r.End
		}

		out = append(out, Bucket{
			Label: m.Format("Jan"),
			Start: start,
			End:   end,
		})
	}

	return out
}

// yearBuckets covers every calendar year from the earliest to the latest record
// of type t, gaps included.
func yearBuckets(records []record.Record, t record.Type, now time.Time) []Bucket {
	loc := now.Location()
	first, last := 0, 0

	for _, rec := range records {
		if rec.Type != t || rec.Date.IsZero() {
			continue
		}

		y := rec.Date.In(loc).Year()
		if first == 0 || y < first {
			first = y
		}

		if y > last {
			last = y
		}
	}

	if first == 0 {
		first, last = now.Year(), now.Year()
	}

	out := make([]Bucket, 0, last-first+1)

	for y := first; y <= last; y++ {
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		out = append(out, Bucket{
			Label: strconv.Itoa(y),
			Start: start,
			End:   daterange.EndOfYear(start),
		})
	}

	return out
}

func spanLabel(start, end time.Time) string {
	if daterange.SameDay(start, end) {
		return start.Format("Jan 2")
	}

	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}
