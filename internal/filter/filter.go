// Package filter narrows and orders record lists for the records and statistics
// views. Everything here is pure: inputs are never mutated and results are new
// slices.
package filter

import (
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type predicate func(r *record.Record) bool

// Engine evaluates a State against records. It only reads the hierarchy, which
// is used to build the searchable title and subtitle of a record.
type Engine struct {
	categories *category.Hierarchy
}

func New(h *category.Hierarchy) *Engine {
	if h == nil {
		h = category.Default()
	}

	return &Engine{categories: h}
}

// Apply returns the records passing every active predicate, in input order.
func (e *Engine) Apply(records []record.Record, s State) []record.Record {
	preds := e.compile(s)
	out := make([]record.Record, 0, len(records))

	for i := range records {
		if matchAll(preds, &records[i]) {
			out = append(out, records[i].Clone())
		}
	}

	return out
}

// Match reports whether a single record passes s.
func (e *Engine) Match(r record.Record, s State) bool {
	return matchAll(e.compile(s), &r)
}

func matchAll(preds []predicate, r *record.Record) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}

	return true
}

// compile turns the active dimensions of s into predicates, cheapest first.
// Inactive dimensions contribute nothing.
func (e *Engine) compile(s State) []predicate {
	var preds []predicate

	// a Caser keeps state between calls, so each compiled filter gets its own
	fold := cases.Fold()

	if !account.IsAll(s.SelectedAccount) {
		want := account.Canonical(s.SelectedAccount)
		preds = append(preds, func(r *record.Record) bool {
			return r.AccountID == want
		})
	}

	if !isAllType(s.RecordType) {
		want := s.RecordType
		preds = append(preds, func(r *record.Record) bool {
			return r.Type == want
		})
	}

	if !isAllType(s.SearchCategory) {
		want := s.SearchCategory
		preds = append(preds, func(r *record.Record) bool {
			return r.Type == want
		})
	}

	if set := toSet(s.SelectedCategories); len(set) > 0 {
		preds = append(preds, func(r *record.Record) bool {
			if _, ok := set[r.SubcategoryID]; ok {
				return true
			}

			_, ok := set[r.CategoryID]

			return ok
		})
	}

	if s.DateRange != nil {
		rng := *s.DateRange
		preds = append(preds, func(r *record.Record) bool {
			return !r.Date.IsZero() && rng.Contains(r.Date)
		})
	}

	if tokens := strings.Fields(fold.String(strings.TrimSpace(s.SearchTerm))); len(tokens) > 0 {
		preds = append(preds, func(r *record.Record) bool {
			fields := e.searchFields(r)
			for i := range fields {
				fields[i] = fold.String(fields[i])
			}

			for _, tok := range tokens {
				if !anyContains(fields, tok) {
					return false
				}
			}

			return true
		})
	}

	if set := toSet(s.SelectedPayers); len(set) > 0 {
		preds = append(preds, func(r *record.Record) bool {
			payee := strings.TrimSpace(r.Payee)
			if payee == "" {
				return false
			}

			_, ok := set[payee]

			return ok
		})
	}

	if set := toSet(s.SelectedLabels); len(set) > 0 {
		preds = append(preds, func(r *record.Record) bool {
			for _, l := range r.Labels {
				if _, ok := set[l]; ok {
					return true
				}
			}

			return false
		})
	}

	if terms := foldAll(fold, s.KeyTerms); len(terms) > 0 {
		preds = append(preds, func(r *record.Record) bool {
			haystack := fold.String(e.keyTermText(r))
			for _, term := range terms {
				if !strings.Contains(haystack, term) {
					return false
				}
			}

			return true
		})
	}

	if s.AmountRange != nil {
		lo, hi := 0.0, math.Inf(1)
		if s.AmountRange.Min != nil {
			lo = *s.AmountRange.Min
		}

		if s.AmountRange.Max != nil {
			hi = *s.AmountRange.Max
		}

		preds = append(preds, func(r *record.Record) bool {
			v := math.Abs(r.Amount)
			return v >= lo && v <= hi
		})
	}

	return preds
}

// Title is the primary display line of a record: the payee, or the name of its
// most specific category.
func (e *Engine) Title(r record.Record) string {
	if p := strings.TrimSpace(r.Payee); p != "" {
		return p
	}

	if r.SubcategoryID != "" {
		return e.categories.Label(r.SubcategoryID)
	}

	return e.categories.Label(r.CategoryID)
}

// Subtitle is the category path shown under the title.
func (e *Engine) Subtitle(r record.Record) string {
	parts := make([]string, 0, 2)
	if r.CategoryID != "" {
		parts = append(parts, e.categories.Label(r.CategoryID))
	}

	if r.SubcategoryID != "" {
		parts = append(parts, e.categories.Label(r.SubcategoryID))
	}

	return strings.Join(parts, " ")
}

func (e *Engine) searchFields(r *record.Record) []string {
	fields := []string{e.Title(*r), e.Subtitle(*r), r.Payee, r.Note}
	return append(fields, r.Labels...)
}

func (e *Engine) keyTermText(r *record.Record) string {
	parts := []string{e.Title(*r), r.Note, r.Payee}
	return strings.Join(append(parts, r.Labels...), " ")
}

func anyContains(fields []string, tok string) bool {
	for _, f := range fields {
		if strings.Contains(f, tok) {
			return true
		}
	}

	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}

	return set
}

func foldAll(fold cases.Caser, values []string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, fold.String(v))
		}
	}

	return out
}
