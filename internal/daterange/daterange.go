package daterange

import (
	"encoding/json"
	"fmt"
	"time"
)

// Preset describes how a Range was derived. It is a hint for chart granularity,
// never the source of truth for the bounds themselves.
type Preset string

const (
	PresetNone   Preset = ""
	PresetWeek   Preset = "week"
	PresetMonth  Preset = "month"
	PresetYear   Preset = "year"
	PresetCustom Preset = "custom"
	PresetAll    Preset = "all"
)

func (p Preset) String() string {
	switch p {
	case PresetWeek:
		return "This Week"
	case PresetMonth:
		return "This Month"
	case PresetYear:
		return "This Year"
	case PresetCustom:
		return "Custom Range"
	case PresetAll:
		return "All Time"
	}

	return "Unknown"
}

// ParsePreset accepts the lowercase preset names used on the wire.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case PresetNone, PresetWeek, PresetMonth, PresetYear, PresetCustom, PresetAll:
		return p, nil
	}

	return PresetNone, fmt.Errorf("unknown date preset %q", s)
}

// Range is an inclusive instant range.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New returns a range with its bounds ordered so that Start <= End.
func New(a, b time.Time) Range {
	if b.Before(a) {
		a, b = b, a
	}

	return Range{Start: a, End: b}
}

// UnmarshalJSON orders the bounds so decoded ranges keep the Start <= End invariant.
func (r *Range) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = New(raw.Start, raw.End)

	return nil
}

// Normalize widens the range to whole days: midnight of the first day through the
// last nanosecond of the last day.
func (r Range) Normalize() Range {
	return Range{Start: StartOfDay(r.Start), End: EndOfDay(r.End)}
}

// Contains reports whether t lies within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days the range touches.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// ForPreset builds the calendar range around now for week, month and year presets.
// All and custom have no implicit bounds and return nil.
func ForPreset(p Preset, now time.Time) *Range {
	var r Range

	switch p {
	case PresetWeek:
		start := StartOfWeek(now)
		r = Range{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}
	case PresetMonth:
		r = Range{Start: StartOfMonth(now), End: EndOfMonth(now)}
	case PresetYear:
		r = Range{Start: StartOfYear(now), End: EndOfYear(now)}
	default:
		return nil
	}

	return &r
}

// ParseDay parses a YYYY-MM-DD string in the given location.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (YYYY-MM-DD): %w", s, err)
	}

	return t, nil
}
