package view

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// recordFields are the form bindings of the add/edit record form.
type recordFields struct {
	Type          string
	Amount        string
	Date          string
	CategoryID    string
	SubcategoryID string
	AccountID     string
	Payee         string
	Note          string
	Labels        string
}

func fieldsFrom(r *record.Record, now time.Time) *recordFields {
	if r == nil {
		return &recordFields{
			Type:      string(record.TypeExpense),
			Date:      FormatDate(now),
			AccountID: account.Default,
		}
	}

	return &recordFields{
		Type:          string(r.Type),
		Amount:        strconv.FormatFloat(r.Magnitude(), 'f', 2, 64),
		Date:          FormatDate(r.Date),
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		AccountID:     r.AccountID,
		Payee:         r.Payee,
		Note:          r.Note,
		Labels:        strings.Join(r.Labels, ", "),
	}
}

// newRecordForm builds the form over f. Category options follow the chosen
// type and subcategory options follow the chosen category.
func newRecordForm(h *category.Hierarchy, f *recordFields) *huh.Form {
	accounts := make([]huh.Option[string], 0, len(account.List()))
	for _, a := range account.List() {
		accounts = append(accounts, huh.NewOption(a.Name, a.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(record.TypeExpense)),
					huh.NewOption("Income", string(record.TypeIncome)),
				).
				Value(&f.Type),

			huh.NewInput().
				Title("Amount").
				Placeholder("12.50").
				Value(&f.Amount).
				Validate(validateAmount),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(validateDay),

			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return categoryOptions(h, record.Type(f.Type))
				}, &f.Type).
				Value(&f.CategoryID).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("category is required")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Title("Subcategory").
				OptionsFunc(func() []huh.Option[string] {
					return subcategoryOptions(h, f.CategoryID)
				}, &f.CategoryID).
				Value(&f.SubcategoryID),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(accounts...).
				Value(&f.AccountID),

			huh.NewInput().
				Title("Payee").
				Value(&f.Payee),

			huh.NewInput().
				Title("Note").
				Value(&f.Note),

			huh.NewInput().
				Title("Labels").
				Placeholder("comma separated").
				Value(&f.Labels),
		),
	).WithWidth(45).WithShowHelp(false)
}

func categoryOptions(h *category.Hierarchy, t record.Type) []huh.Option[string] {
	kind := category.KindExpense
	if t == record.TypeIncome {
		kind = category.KindIncome
	}

	cats := h.Categories(kind)
	opts := make([]huh.Option[string], 0, len(cats))

	for _, c := range cats {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	return opts
}

func subcategoryOptions(h *category.Hierarchy, categoryID string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, s := range h.Subcategories(categoryID) {
		opts = append(opts, huh.NewOption(s.Name, s.ID))
	}

	return opts
}

func validateAmount(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("amount must be a number")
	}

	if v == 0 {
		return errors.New("amount cannot be zero")
	}

	return nil
}

func validateDay(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}

	return nil
}

// record applies the fields to base. Sign and ids are settled by the record
// service on save.
func (f *recordFields) record(base record.Record, loc *time.Location) (record.Record, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil {
		return record.Record{}, errors.New("amount must be a number")
	}

	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(f.Date), loc)
	if err != nil {
		return record.Record{}, errors.New("date must be YYYY-MM-DD")
	}

	r := base.Clone()
	r.Type = record.Type(f.Type)
	r.Amount = amount
	r.Date = date
	r.CategoryID = f.CategoryID
	r.SubcategoryID = f.SubcategoryID
	r.AccountID = f.AccountID
	r.Payee = f.Payee
	r.Note = f.Note
	r.Labels = record.NormalizeLabels(strings.Split(f.Labels, ","))

	return r, nil
}

// patch is the edit-flow counterpart of record.
func (f *recordFields) patch(loc *time.Location) (record.Patch, error) {
	r, err := f.record(record.Record{}, loc)
	if err != nil {
		return record.Patch{}, err
	}

	labels := r.Labels
	if labels == nil {
		labels = []string{}
	}

	return record.Patch{
		Type:          &r.Type,
		Amount:        &r.Amount,
		Date:          &r.Date,
		CategoryID:    &r.CategoryID,
		SubcategoryID: &r.SubcategoryID,
		AccountID:     &r.AccountID,
		Payee:         &r.Payee,
		Note:          &r.Note,
		Labels:        labels,
	}, nil
}
