package stats

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/httpx"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

type Handler struct {
	svc *stats.Service
	now func() time.Time
}

func NewHandler(svc *stats.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/series", h.series)
	r.Post("/categories", h.categories)
	r.Post("/summary", h.summary)
}

type seriesResponse struct {
	stats.Series
	Type record.Type `json:"type"`
}

type categoriesResponse struct {
	Type     record.Type     `json:"type"`
	Segments []stats.Segment `json:"segments"`
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	t, err := recordType(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := httpx.DecodeState(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	httpx.JSON(w, http.StatusOK, seriesResponse{
		Series: h.svc.Series(r.Context(), st, t),
		Type:   t,
	})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	t, err := recordType(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := httpx.DecodeState(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	segments := h.svc.Categories(r.Context(), st, t)
	if segments == nil {
		segments = []stats.Segment{}
	}

	httpx.JSON(w, http.StatusOK, categoriesResponse{Type: t, Segments: segments})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	st, err := httpx.DecodeState(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	httpx.JSON(w, http.StatusOK, h.svc.Summary(r.Context(), st))
}

// recordType reads the ?type= query parameter, defaulting to expense.
func recordType(r *http.Request) (record.Type, error) {
	t := record.Type(r.URL.Query().Get("type"))
	if t == "" {
		return record.TypeExpense, nil
	}

	if !t.Valid() {
		return "", fmt.Errorf("invalid type %q", t)
	}

	return t, nil
}
