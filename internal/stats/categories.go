package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

const (
	DefaultColor = "#9E9E9E"
	DefaultIcon  = "tag"

	// fallback groups for records that carry no usable category id
	uncategorizedExpense = "other"
	uncategorizedIncome  = "income"
)

type Segment struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Icon  string  `json:"icon"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// ByCategory sums |amount| per group, largest first, ties in first-seen order.
// Expenses group by category; income groups by subcategory, then category.
func ByCategory(records []record.Record, t record.Type, h *category.Hierarchy) []Segment {
	if h == nil {
		h = category.Default()
	}

	index := make(map[string]int)

	var (
		out   []Segment
		total float64
	)

	for _, r := range records {
		if r.Type != t {
			continue
		}

		id := groupKey(r)

		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, Segment{
				ID:    id,
				Label: h.Label(id),
				Color: h.Color(id, DefaultColor),
				Icon:  h.Icon(id, DefaultIcon),
			})
		}

		v := math.Abs(r.Amount)
		out[i].Value += v
		total += v
	}

	if total > 0 {
		for i := range out {
			out[i].Share = out[i].Value / total
		}
	}

	slices.SortStableFunc(out, func(a, b Segment) int {
		return cmp.Compare(b.Value, a.Value)
	})

	return out
}

func groupKey(r record.Record) string {
	if r.Type == record.TypeIncome {
		switch {
		case r.SubcategoryID != "":
			return r.SubcategoryID
		case r.CategoryID != "":
			return r.CategoryID
		}

		return uncategorizedIncome
	}

	if r.CategoryID == "" {
		return uncategorizedExpense
	}

	return r.CategoryID
}

// Summary holds the headline totals of a filtered view.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
	Count   int     `json:"count"`
}

func Summarize(records []record.Record) Summary {
	var s Summary

	for _, r := range records {
		switch r.Type {
		case record.TypeIncome:
			s.Income += math.Abs(r.Amount)
		case record.TypeExpense:
			s.Expense += math.Abs(r.Amount)
		}

		s.Count++
	}

	s.Net = s.Income - s.Expense

	return s
}
