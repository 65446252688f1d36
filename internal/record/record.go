package record

import (
	"errors"
	"math"
	"time"
)

// Type is the direction of a record. The sign of Amount always agrees with it.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is a known record type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidType         = errors.New("invalid record type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrMissingDate         = errors.New("missing date")
	ErrMissingCategory     = errors.New("missing category")
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to category")
	ErrDuplicateID         = errors.New("duplicate record id")
)

// IsValidation reports whether err rejects the input rather than the storage.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidType,
		ErrInvalidAmount,
		ErrMissingDate,
		ErrMissingCategory,
		ErrSubcategoryMismatch,
		ErrDuplicateID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Record is a single logged transaction.
type Record struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	CategoryID    string    `json:"categoryId"`
	SubcategoryID string    `json:"subcategoryId,omitempty"`
	AccountID     string    `json:"accountId"`
	Payee         string    `json:"payee,omitempty"`
	Note          string    `json:"note,omitempty"`
	Labels        []string  `json:"labels,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Magnitude is the absolute transacted value.
func (r Record) Magnitude() float64 {
	return math.Abs(r.Amount)
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	if r.Labels != nil {
		r.Labels = append([]string(nil), r.Labels...)
	}

	return r
}

// Patch is a partial update for the detail-edit flow. Nil fields are left alone.
type Patch struct {
	Type          *Type      `json:"type,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	CategoryID    *string    `json:"categoryId,omitempty"`
	SubcategoryID *string    `json:"subcategoryId,omitempty"`
	AccountID     *string    `json:"accountId,omitempty"`
	Payee         *string    `json:"payee,omitempty"`
	Note          *string    `json:"note,omitempty"`
	Labels        []string   `json:"labels,omitempty"`
}

// Apply returns r with the patch fields copied over. The result still has to go
// through Normalize, which realigns the sign of Amount with a patched Type.
func (p Patch) Apply(r Record) Record {
	r = r.Clone()

	if p.Type != nil {
		r.Type = *p.Type
	}

	if p.Amount != nil {
		r.Amount = *p.Amount
	}

	if p.Date != nil {
		r.Date = *p.Date
	}

	if p.CategoryID != nil {
		r.CategoryID = *p.CategoryID
	}

	if p.SubcategoryID != nil {
		r.SubcategoryID = *p.SubcategoryID
	}

	if p.AccountID != nil {
		r.AccountID = *p.AccountID
	}

	if p.Payee != nil {
		r.Payee = *p.Payee
	}

	if p.Note != nil {
		r.Note = *p.Note
	}

	if p.Labels != nil {
		r.Labels = append([]string(nil), p.Labels...)
	}

	return r
}
