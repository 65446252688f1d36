package filter

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type SortKey string

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
)

// SortKeys lists the keys in the order the UI cycles through them.
var SortKeys = []SortKey{SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc}

func (k SortKey) String() string {
	switch k {
	case SortDateAsc:
		return "Oldest first"
	case SortAmountDesc:
		return "Largest amount"
	case SortAmountAsc:
		return "Smallest amount"
	}

	return "Newest first"
}

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortDateDesc, nil
	}

	k := SortKey(s)
	if !slices.Contains(SortKeys, k) {
		return SortDateDesc, fmt.Errorf("unknown sort key %q", s)
	}

	return k, nil
}

// Sort returns a stably ordered copy. Amount keys compare magnitudes and break
// ties on the signed amount in the same direction, so +100 precedes -100 when
// descending. Unknown keys sort newest first.
func Sort(records []record.Record, key SortKey) []record.Record {
	out := slices.Clone(records)

	var fn func(a, b record.Record) int

	switch key {
	case SortDateAsc:
		fn = func(a, b record.Record) int {
			return a.Date.Compare(b.Date)
		}
	case SortAmountDesc:
		fn = func(a, b record.Record) int {
			if c := cmp.Compare(math.Abs(b.Amount), math.Abs(a.Amount)); c != 0 {
				return c
			}

			return cmp.Compare(b.Amount, a.Amount)
		}
	case SortAmountAsc:
		fn = func(a, b record.Record) int {
			if c := cmp.Compare(math.Abs(a.Amount), math.Abs(b.Amount)); c != 0 {
				return c
			}

			return cmp.Compare(a.Amount, b.Amount)
		}
	default:
		fn = func(a, b record.Record) int {
			return b.Date.Compare(a.Date)
		}
	}

	slices.SortStableFunc(out, fn)

	return out
}

// Query is the records-view pipeline: filter, then sort by the state's key.
func (e *Engine) Query(records []record.Record, s State) []record.Record {
	return Sort(e.Apply(records, s), s.Sort)
}
