package record

import (
	"fmt"
	"math"
	"strings"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/category"
)

// Normalize canonicalises a record at the store boundary so engine code never has
// to branch on loosely-shaped input.
func Normalize(r Record) Record {
	r = r.Clone()

	r.ID = strings.TrimSpace(r.ID)
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	r.SubcategoryID = strings.TrimSpace(r.SubcategoryID)
	r.AccountID = account.Canonical(r.AccountID)
	r.Payee = strings.TrimSpace(r.Payee)
	r.Note = strings.TrimSpace(r.Note)
	r.Labels = NormalizeLabels(r.Labels)

	if !r.Type.Valid() {
		r.Type = TypeIncome
		if r.Amount < 0 {
			r.Type = TypeExpense
		}
	}

	switch r.Type {
	case TypeExpense:
		r.Amount = -math.Abs(r.Amount)
	case TypeIncome:
		r.Amount = math.Abs(r.Amount)
	}

	return r
}

// NormalizeLabels trims, drops empties and deduplicates while keeping order.
func NormalizeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))

	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}

		if _, ok := seen[l]; ok {
			continue
		}

		seen[l] = struct{}{}
		out = append(out, l)
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// checkType rejects an unknown type before Normalize can replace it with one
// derived from the amount's sign. An empty type is still inferred.
func checkType(t Type) error {
	if t != "" && !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}

	return nil
}

// Validate checks the fields a record cannot be stored without. The subcategory
// parent is only enforced when h knows the subcategory; stale ids are tolerated.
func Validate(r Record, h *category.Hierarchy) error {
	if err := checkType(r.Type); err != nil {
		return err
	}

	if r.Amount == 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, r.Amount)
	}

	if r.Date.IsZero() {
		return ErrMissingDate
	}

	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrMissingCategory
	}

	if r.SubcategoryID == "" || h == nil {
		return nil
	}

	if parent, ok := h.Parent(r.SubcategoryID); ok && parent != r.CategoryID {
		return fmt.Errorf("%w: %s is under %s, not %s", ErrSubcategoryMismatch, r.SubcategoryID, parent, r.CategoryID)
	}

	return nil
}
