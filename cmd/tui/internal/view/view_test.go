package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/daterange"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func TestBar(t *testing.T) {
	type testCase struct {
		name  string
		v     float64
		peak  float64
		width int
		want  string
	}

	testCases := []testCase{
		{name: "peak fills", v: 10, peak: 10, width: 4, want: "████"},
		{name: "half", v: 5, peak: 10, width: 4, want: "██  "},
		{name: "zero value", v: 0, peak: 10, width: 4, want: "    "},
		{name: "no peak", v: 3, peak: 0, width: 3, want: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bar(tc.v, tc.peak, tc.width))
		})
	}
}

func TestNext_Wraps(t *testing.T) {
	assert.Equal(t, filter.SortDateAsc, next(filter.SortKeys, filter.SortDateDesc))
	assert.Equal(t, filter.SortDateDesc, next(filter.SortKeys, filter.SortAmountAsc))
	assert.Equal(t, record.TypeExpense, next(recordTypes, filter.TypeAll))
}

func TestNeedsReview(t *testing.T) {
	assert.True(t, needsReview(record.Record{CategoryID: "other"}))
	assert.True(t, needsReview(record.Record{CategoryID: "income"}))
	assert.False(t, needsReview(record.Record{CategoryID: "income", SubcategoryID: "income:salary"}))
	assert.False(t, needsReview(record.Record{CategoryID: "food"}))
}

func TestRecordFields_RoundTrip(t *testing.T) {
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	r := record.Record{
		ID:            "r1",
		Type:          record.TypeExpense,
		Amount:        -4.5,
		Date:          date,
		CategoryID:    "food",
		SubcategoryID: "food:coffee",
		AccountID:     "cash",
		Payee:         "Cafe",
		Labels:        []string{"work", "trip"},
	}

	f := fieldsFrom(&r, time.Now())
	assert.Equal(t, "4.50", f.Amount)
	assert.Equal(t, "2025-03-12", f.Date)
	assert.Equal(t, "work, trip", f.Labels)

	got, err := f.record(record.Record{ID: "r1"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, date, got.Date)
	assert.Equal(t, 4.5, got.Amount)
	assert.Equal(t, []string{"work", "trip"}, got.Labels)

	f.Labels = ""
	patch, err := f.patch(time.UTC)
	require.NoError(t, err)
	assert.NotNil(t, patch.Labels)
	assert.Empty(t, patch.Labels)

	f.Amount = "abc"
	_, err = f.record(record.Record{}, time.UTC)
	assert.Error(t, err)
}

func TestFieldsFrom_NewRecordDefaults(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	f := fieldsFrom(nil, now)

	assert.Equal(t, string(record.TypeExpense), f.Type)
	assert.Equal(t, "2025-03-12", f.Date)
	assert.Equal(t, "cash", f.AccountID)
}

func TestTimeframePicker_Preset(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	p := NewTimeframePicker(daterange.PresetMonth)
	p.now = func() time.Time { return now }

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, daterange.PresetMonth, msg.Preset)
	require.NotNil(t, msg.Range)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), msg.Range.Start)
	assert.True(t, p.IsSelecting())
}

func TestTimeframePicker_Custom(t *testing.T) {
	p := NewTimeframePicker(daterange.PresetCustom)
	p.now = func() time.Time { return time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC) }

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p.startInput.SetValue("2025-02-10")
	p.endInput.SetValue("2025-01-05")

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, daterange.PresetCustom, msg.Preset)
	assert.Equal(t, 5, msg.Range.Start.Day())
	assert.Equal(t, time.February, msg.Range.End.Month())

	p.startInput.SetValue("nope")
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, p.View(), "invalid start date")
}
