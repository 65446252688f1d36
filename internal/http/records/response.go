package records

import (
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type recordRequest struct {
	Type          record.Type `json:"type"`
	Amount        float64     `json:"amount"`
	Date          time.Time   `json:"date"`
	CategoryID    string      `json:"categoryId"`
	SubcategoryID string      `json:"subcategoryId,omitempty"`
	AccountID     string      `json:"accountId,omitempty"`
	Payee         string      `json:"payee,omitempty"`
	Note          string      `json:"note,omitempty"`
	Labels        []string    `json:"labels,omitempty"`
}

func (req recordRequest) toRecord() record.Record {
	return record.Record{
		Type:          req.Type,
		Amount:        req.Amount,
		Date:          req.Date,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		AccountID:     req.AccountID,
		Payee:         req.Payee,
		Note:          req.Note,
		Labels:        req.Labels,
	}
}

type recordResponse struct {
	ID            string      `json:"id"`
	Type          record.Type `json:"type"`
	Amount        float64     `json:"amount"`
	Date          time.Time   `json:"date"`
	CategoryID    string      `json:"categoryId"`
	SubcategoryID string      `json:"subcategoryId,omitempty"`
	AccountID     string      `json:"accountId"`
	Payee         string      `json:"payee,omitempty"`
	Note          string      `json:"note,omitempty"`
	Labels        []string    `json:"labels"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func toResponse(r record.Record) recordResponse {
	labels := r.Labels
	if labels == nil {
		labels = []string{}
	}

	return recordResponse{
		ID:            r.ID,
		Type:          r.Type,
		Amount:        r.Amount,
		Date:          r.Date,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		AccountID:     r.AccountID,
		Payee:         r.Payee,
		Note:          r.Note,
		Labels:        labels,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toResponseList(records []record.Record) []recordResponse {
	resp := make([]recordResponse, len(records))
	for i, r := range records {
		resp[i] = toResponse(r)
	}

	return resp
}
