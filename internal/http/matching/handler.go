package matching

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/httpx"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Raw     string            `json:"raw"`
	Mapping *matching.Mapping `json:"mapping"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw")
	if raw == "" {
		http.Error(w, "raw query parameter is required", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Suggest(r.Context(), raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httpx.JSON(w, http.StatusOK, suggestResponse{Raw: raw, Mapping: m})
}

type learnRequest struct {
	Pattern       string `json:"pattern"`
	Payee         string `json:"payee"`
	CategoryID    string `json:"categoryId,omitempty"`
	SubcategoryID string `json:"subcategoryId,omitempty"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.svc.Learn(r.Context(), matching.Mapping{
		Pattern:       req.Pattern,
		Payee:         req.Payee,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
	})
	if err != nil {
		if errors.Is(err, matching.ErrEmptyPattern) {
			http.Error(w, "pattern and payee are required", http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if mappings == nil {
		mappings = []matching.Mapping{}
	}

	httpx.JSON(w, http.StatusOK, mappings)
}
