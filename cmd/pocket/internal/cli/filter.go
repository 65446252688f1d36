package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/daterange"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// filterFlags are the filter dimensions shared by every command that reads records.
type filterFlags struct {
	account    string
	recordType string
	search     string
	categories []string
	payees     []string
	labels     []string
	terms      []string
	min        float64
	max        float64
	preset     string
	from       string
	to         string
	sort       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.account, "account", "all", "account id or name")
	fs.StringVar(&f.recordType, "type", "all", "expense, income or all")
	fs.StringVarP(&f.search, "search", "s", "", "free-text search over title, note, category and labels")
	fs.StringSliceVar(&f.categories, "category", nil, "category or subcategory ids; a category includes its subcategories")
	fs.StringSliceVar(&f.payees, "payee", nil, "exact payees")
	fs.StringSliceVar(&f.labels, "label", nil, "records carrying any of these labels")
	fs.StringSliceVar(&f.terms, "term", nil, "key terms that must all appear")
	fs.Float64Var(&f.min, "min", 0, "minimum absolute amount")
	fs.Float64Var(&f.max, "max", 0, "maximum absolute amount")
	fs.StringVar(&f.preset, "preset", "all", "week, month, year or all")
	fs.StringVar(&f.from, "from", "", "first day of a custom range (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "last day of a custom range (YYYY-MM-DD)")
	fs.StringVar(&f.sort, "sort", string(filter.SortDateDesc), "date-desc, date-asc, amount-desc or amount-asc")
}

func (f *filterFlags) state(cmd *cobra.Command, rt *runtime) (filter.State, error) {
	now := rt.now()

	sortKey, err := filter.ParseSortKey(f.sort)
	if err != nil {
		return filter.State{}, err
	}

	st := filter.Default().
		WithAccount(f.account).
		WithRecordType(record.Type(f.recordType)).
		WithSearchTerm(f.search).
		WithCategories(rt.app.Categories.Expand(f.categories)).
		WithPayers(f.payees).
		WithLabels(f.labels).
		WithKeyTerms(f.terms).
		WithSort(sortKey)

	if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
		var r filter.AmountRange
		if cmd.Flags().Changed("min") {
			r.Min = new(f.min)
		}

		if cmd.Flags().Changed("max") {
			r.Max = new(f.max)
		}

		st = st.WithAmountRange(&r)
	}

	if f.from != "" || f.to != "" {
		r, err := customRange(f.from, f.to, now)
		if err != nil {
			return filter.State{}, err
		}

		return st.WithDateRange(r, daterange.PresetCustom), nil
	}

	preset, err := daterange.ParsePreset(f.preset)
	if err != nil {
		return filter.State{}, err
	}

	return st.WithPreset(preset, now), nil
}

// customRange fills a missing bound with today.
func customRange(from, to string, now time.Time) (*daterange.Range, error) {
	start, end := now, now

	if from != "" {
		t, err := daterange.ParseDay(from, now.Location())
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}

		start = t
	}

	if to != "" {
		t, err := daterange.ParseDay(to, now.Location())
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}

		end = t
	}

	r := daterange.New(start, end).Normalize()

	return &r, nil
}
