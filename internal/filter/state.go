package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/daterange"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// TypeAll disables the record-type and search-category restrictions.
const TypeAll record.Type = "all"

// AmountRange bounds the absolute amount. A nil bound is open.
type AmountRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// State is the full set of active predicates plus the sort key. It is a plain
// value: setters return a modified copy and the engine only ever reads it.
type State struct {
	SelectedAccount        string           `json:"selectedAccount"`
	RecordType             record.Type      `json:"recordType"`
	SearchCategory         record.Type      `json:"searchCategory"`
	SelectedCategories     []string         `json:"selectedCategories,omitempty"`
	TempSelectedCategories []string         `json:"tempSelectedCategories,omitempty"`
	SearchTerm             string           `json:"searchTerm,omitempty"`
	DateRange              *daterange.Range `json:"dateRange,omitempty"`
	DatePreset             daterange.Preset `json:"datePreset,omitempty"`
	SelectedPayers         []string         `json:"selectedPayers,omitempty"`
	SelectedLabels         []string         `json:"selectedLabels,omitempty"`
	KeyTerms               []string         `json:"keyTerms,omitempty"`
	AmountRange            *AmountRange     `json:"amountRange,omitempty"`
	Sort                   SortKey          `json:"sort"`
}

// Default is all time, all accounts, no filters, newest first.
func Default() State {
	return State{
		SelectedAccount: account.All,
		RecordType:      TypeAll,
		SearchCategory:  TypeAll,
		DatePreset:      daterange.PresetAll,
		Sort:            SortDateDesc,
	}
}

// Reset drops every predicate but keeps the sort key.
func (s State) Reset() State {
	d := Default()
	d.Sort = s.Sort

	return d
}

// IsDefault reports whether no predicate is active.
func (s State) IsDefault() bool {
	return account.IsAll(s.SelectedAccount) &&
		isAllType(s.RecordType) &&
		isAllType(s.SearchCategory) &&
		len(s.SelectedCategories) == 0 &&
		strings.TrimSpace(s.SearchTerm) == "" &&
		s.DateRange == nil &&
		len(s.SelectedPayers) == 0 &&
		len(s.SelectedLabels) == 0 &&
		len(s.KeyTerms) == 0 &&
		s.AmountRange == nil
}

func (s State) WithAccount(id string) State {
	s.SelectedAccount = account.Canonical(id)
	if account.IsAll(id) {
		s.SelectedAccount = account.All
	}

	return s
}

func (s State) WithRecordType(t record.Type) State {
	s.RecordType = normalizeType(t)
	return s
}

func (s State) WithSearchCategory(t record.Type) State {
	s.SearchCategory = normalizeType(t)
	return s
}

// WithCategories replaces the committed selection. Callers pass ids already
// expanded through the category hierarchy.
func (s State) WithCategories(ids []string) State {
	s.SelectedCategories = normalizeSet(ids)
	return s
}

// StageCategories edits the pending selection of the category picker.
func (s State) StageCategories(ids []string) State {
	s.TempSelectedCategories = normalizeSet(ids)
	return s
}

// CommitCategories makes the pending selection the active one.
func (s State) CommitCategories() State {
	s.SelectedCategories = s.TempSelectedCategories
	s.TempSelectedCategories = nil

	return s
}

func (s State) DiscardStagedCategories() State {
	s.TempSelectedCategories = nil
	return s
}

// WithDateRange sets the range and the preset it came from. A nil range means
// all time regardless of preset.
func (s State) WithDateRange(r *daterange.Range, preset daterange.Preset) State {
	if r == nil {
		return s.WithAllTime()
	}

	ordered := daterange.New(r.Start, r.End)
	s.DateRange = &ordered
	s.DatePreset = preset

	return s
}

// WithPreset resolves a calendar preset around now.
func (s State) WithPreset(p daterange.Preset, now time.Time) State {
	return s.WithDateRange(daterange.ForPreset(p, now), p)
}

func (s State) WithAllTime() State {
	s.DateRange = nil
	s.DatePreset = daterange.PresetAll

	return s
}

func (s State) WithSearchTerm(term string) State {
	s.SearchTerm = strings.TrimSpace(term)
	return s
}

func (s State) WithPayers(payers []string) State {
	s.SelectedPayers = normalizeSet(payers)
	return s
}

func (s State) WithLabels(labels []string) State {
	s.SelectedLabels = normalizeSet(labels)
	return s
}

func (s State) WithKeyTerms(terms []string) State {
	s.KeyTerms = normalizeSet(terms)
	return s
}

func (s State) WithAmountRange(r *AmountRange) State {
	if r == nil || (r.Min == nil && r.Max == nil) {
		s.AmountRange = nil
		return s
	}

	cp := *r
	s.AmountRange = &cp

	return s
}

func (s State) WithSort(key SortKey) State {
	s.Sort = key
	return s
}

// Clone returns a deep copy, so the result can be kept while s keeps changing.
func (s State) Clone() State {
	s.SelectedCategories = slices.Clone(s.SelectedCategories)
	s.TempSelectedCategories = slices.Clone(s.TempSelectedCategories)
	s.SelectedPayers = slices.Clone(s.SelectedPayers)
	s.SelectedLabels = slices.Clone(s.SelectedLabels)
	s.KeyTerms = slices.Clone(s.KeyTerms)

	if s.DateRange != nil {
		r := *s.DateRange
		s.DateRange = &r
	}

	if s.AmountRange != nil {
		r := *s.AmountRange
		s.AmountRange = &r
	}

	return s
}

func normalizeType(t record.Type) record.Type {
	if t.Valid() {
		return t
	}

	return TypeAll
}

func isAllType(t record.Type) bool {
	return !t.Valid()
}

// normalizeSet trims, drops empties and dedupes, keeping first-seen order.
func normalizeSet(values []string) []string {
	return record.NormalizeLabels(values)
}
