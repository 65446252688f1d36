package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/http/httpx"
)

// Handler serves the read-only reference data the clients build pickers from.
type Handler struct {
	categories *category.Hierarchy
}

func NewHandler(h *category.Hierarchy) *Handler {
	return &Handler{categories: h}
}

func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
}

func (h *Handler) AccountRoutes(r chi.Router) {
	r.Get("/", h.listAccounts)
}

type categoriesResponse struct {
	Expense []category.Category `json:"expense"`
	Income  []category.Category `json:"income"`
}

func (h *Handler) listCategories(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, categoriesResponse{
		Expense: h.categories.Categories(category.KindExpense),
		Income:  h.categories.Categories(category.KindIncome),
	})
}

func (h *Handler) listAccounts(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, account.List())
}
