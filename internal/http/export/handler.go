package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/http/httpx"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.download)
}

// download streams the filtered, sorted records as a CSV attachment.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	st, err := httpx.DecodeState(r, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"records_%s.csv\"", h.now().Format("20060102")))

	n, err := h.svc.WriteCSV(r.Context(), w, st)
	if err != nil {
		// headers are gone by now; all that is left is to log it
		slog.Error("failed to write export", "error", err)
		return
	}

	slog.Debug("export written", "records", n)
}
