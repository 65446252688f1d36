package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/httpx"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

type Handler struct {
	svc   *record.Service
	stats *stats.Service
	now   func() time.Time
}

func NewHandler(svc *record.Service, statsSvc *stats.Service) *Handler {
	return &Handler{svc: svc, stats: statsSvc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/batch", h.createBatch)
	r.Post("/query", h.query)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Append(r.Context(), req.toRecord())
	if err != nil {
		writeError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(*rec))
}

func (h *Handler) createBatch(w http.ResponseWriter, r *http.Request) {
	var req []recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch := make([]record.Record, 0, len(req))
	for _, item := range req {
		batch = append(batch, item.toRecord())
	}

	added, err := h.svc.AppendBatch(r.Context(), batch)
	if err != nil {
		writeError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponseList(added))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, toResponseList(h.svc.GetAll(r.Context())))
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	st, err := httpx.DecodeState(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponseList(h.stats.Records(r.Context(), st)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(*rec))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var patch record.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(*rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case record.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
