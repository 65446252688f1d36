package stats_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/daterange"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

var now = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func rec(t record.Type, amount float64, date time.Time) record.Record {
	return record.Normalize(record.Record{Type: t, Amount: amount, Date: date, CategoryID: "food"})
}

func labels(s stats.Series) []string {
	out := make([]string, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.Label
	}

	return out
}

func totals(s stats.Series) []float64 {
	out := make([]float64, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.Total
	}

	return out
}

func TestBucketize_WeekScenario(t *testing.T) {
	records := []record.Record{
		rec(record.TypeExpense, -10, day(2025, 6, 2).Add(9*time.Hour)),
		rec(record.TypeExpense, -20, day(2025, 6, 3).Add(18*time.Hour)),
	}

	s := stats.Bucketize(records, record.TypeExpense, rng(day(2025, 6, 2), day(2025, 6, 8)), daterange.PresetWeek, now)

	assert.Equal(t, stats.GranularityWeek, s.Granularity)
	assert.Equal(t, []string{"Mon 2", "Tue 3", "Wed 4", "Thu 5", "Fri 6", "Sat 7", "Sun 8"}, labels(s))
	assert.Equal(t, []float64{10, 20, 0, 0, 0, 0, 0}, totals(s))
	assert.Equal(t, 30.0, s.Total)
	assert.Equal(t, 1, s.PeakIndex)
	assert.InDelta(t, 30.0/7, s.PeriodAverage, 1e-9)
}

func TestBucketize_Month(t *testing.T) {
	records := []record.Record{
		rec(record.TypeExpense, -5, day(2025, 6, 1)),
		rec(record.TypeExpense, -7, daterange.EndOfDay(day(2025, 6, 7))),
		rec(record.TypeExpense, -1, day(2025, 6, 8)),
		rec(record.TypeExpense, -9, day(2025, 6, 30).Add(23*time.Hour)),
	}

	r := rng(day(2025, 6, 1), daterange.EndOfMonth(day(2025, 6, 1)))
	s := stats.Bucketize(records, record.TypeExpense, r, daterange.PresetMonth, now)

	assert.Equal(t, stats.GranularityMonth, s.Granularity)
	assert.Equal(t, []string{
		"Jun 1 - Jun 7", "Jun 8 - Jun 14", "Jun 15 - Jun 21", "Jun 22 - Jun 28", "Jun 29 - Jun 30",
	}, labels(s))
	assert.Equal(t, []float64{12, 1, 0, 0, 9}, totals(s))
	assert.Equal(t, 0, s.PeakIndex)
}

func TestBucketize_Year(t *testing.T) {
	records := []record.Record{
		rec(record.TypeIncome, 100, day(2025, 1, 31)),
		rec(record.TypeIncome, 250, day(2025, 12, 31).Add(20*time.Hour)),
		rec(record.TypeExpense, -999, day(2025, 3, 3)),
	}

	s := stats.Bucketize(records, record.TypeIncome, rng(day(2025, 1, 1), day(2025, 12, 31)), daterange.PresetYear, now)

	require.Len(t, s.Buckets, 12)
	assert.Equal(t, "Jan", s.Buckets[0].Label)
	assert.Equal(t, "Dec", s.Buckets[11].Label)
	assert.Equal(t, 100.0, s.Buckets[0].Total)
	assert.Equal(t, 250.0, s.Buckets[11].Total)
	assert.Equal(t, 350.0, s.Total)
	assert.Equal(t, 11, s.PeakIndex)
}

func TestBucketize_Custom(t *testing.T) {
	type testCase struct {
		name   string
		r      *daterange.Range
		labels []string
	}

	tests := []testCase{
		{
			name:   "TenDaysInFiveWindows",
			r:      rng(day(2025, 6, 1), day(2025, 6, 10)),
			labels: []string{"Jun 1 - Jun 2", "Jun 3 - Jun 4", "Jun 5 - Jun 6", "Jun 7 - Jun 8", "Jun 9 - Jun 10"},
		},
		{
			name:   "TwelveDaysRoundsUp",
			r:      rng(day(2025, 6, 1), day(2025, 6, 12)),
			labels: []string{"Jun 1 - Jun 3", "Jun 4 - Jun 6", "Jun 7 - Jun 9", "Jun 10 - Jun 12"},
		},
		{
			name:   "ShortRangeOneDayWindows",
			r:      rng(day(2025, 6, 1), day(2025, 6, 3)),
			labels: []string{"Jun 1", "Jun 2", "Jun 3"},
		},
		{
			name:   "LastWindowClipped",
			r:      rng(day(2025, 6, 1), day(2025, 6, 14)),
			labels: []string{"Jun 1 - Jun 3", "Jun 4 - Jun 6", "Jun 7 - Jun 9", "Jun 10 - Jun 12", "Jun 13 - Jun 14"},
		},
		{
			name:   "CrossesMonth",
			r:      rng(day(2025, 5, 28), day(2025, 6, 8)),
			labels: []string{"May 28 - May 30", "May 31 - Jun 2", "Jun 3 - Jun 5", "Jun 6 - Jun 8"},
		},
		{
			name:   "ManyDays",
			r:      rng(day(2025, 1, 1), day(2025, 3, 31)),
			labels: []string{"Jan 1 - Jan 18", "Jan 19 - Feb 5", "Feb 6 - Feb 23", "Feb 24 - Mar 13", "Mar 14 - Mar 31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stats.Bucketize(nil, record.TypeExpense, tt.r, daterange.PresetCustom, now)

			assert.Equal(t, stats.GranularityCustom, s.Granularity)
			assert.Equal(t, tt.labels, labels(s))
			assert.LessOrEqual(t, len(s.Buckets), 5)
			assert.Equal(t, tt.r.Normalize().End, s.Buckets[len(s.Buckets)-1].End)
		})
	}
}

func TestBucketize_AllTime(t *testing.T) {
	records := []record.Record{
		rec(record.TypeExpense, -10, day(2023, 5, 1)),
		rec(record.TypeExpense, -30, day(2025, 2, 1)),
		rec(record.TypeIncome, 5, day(2019, 1, 1)),
	}

	s := stats.Bucketize(records, record.TypeExpense, nil, daterange.PresetAll, now)

	assert.Equal(t, stats.GranularityAll, s.Granularity)
	assert.Equal(t, []string{"2023", "2024", "2025"}, labels(s))
	assert.Equal(t, []float64{10, 0, 30}, totals(s))
	assert.Equal(t, 2, s.PeakIndex)
}

func TestBucketize_AllTimeEmpty(t *testing.T) {
	s := stats.Bucketize(nil, record.TypeIncome, nil, daterange.PresetNone, now)

	assert.Equal(t, []string{"2025"}, labels(s))
	assert.Zero(t, s.Total)
	assert.Zero(t, s.PeriodAverage)
	assert.Equal(t, 0, s.PeakIndex)
}

func TestBucketize_DropsRecordsOutsideRange(t *testing.T) {
	records := []record.Record{
		rec(record.TypeExpense, -10, day(2025, 5, 31)),
		rec(record.TypeExpense, -20, day(2025, 6, 2)),
		rec(record.TypeExpense, -40, day(2025, 6, 9)),
	}

	s := stats.Bucketize(records, record.TypeExpense, rng(day(2025, 6, 2), day(2025, 6, 8)), daterange.PresetWeek, now)
	assert.Equal(t, 20.0, s.Total)
}

func TestBucketize_TotalConservation(t *testing.T) {
	var records []record.Record

	start := day(2025, 1, 1)
	for i := range 400 {
		date := start.Add(time.Duration(i*21) * time.Hour)
		amount := -float64(i%17+1) * 1.25
		typ := record.TypeExpense

		if i%5 == 0 {
			typ, amount = record.TypeIncome, -amount
		}

		records = append(records, rec(typ, amount, date))
	}

	ranges := []*daterange.Range{
		nil,
		rng(day(2025, 1, 1), day(2025, 12, 31)),
		rng(day(2025, 3, 1), day(2025, 3, 31)),
		rng(day(2025, 3, 3), day(2025, 3, 9)),
		rng(day(2025, 2, 11), day(2025, 7, 19)),
	}

	for _, typ := range []record.Type{record.TypeExpense, record.TypeIncome} {
		for _, r := range ranges {
			want := 0.0

			for _, rc := range records {
				if rc.Type == typ && (r == nil || r.Normalize().Contains(rc.Date)) {
					want += math.Abs(rc.Amount)
				}
			}

			s := stats.Bucketize(records, typ, r, daterange.PresetNone, now)

			sum := 0.0
			for _, b := range s.Buckets {
				sum += b.Total
			}

			assert.InDelta(t, want, sum, 1e-6)
			assert.InDelta(t, want, s.Total, 1e-6)
		}
	}
}
