package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/httpx"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type Handler struct {
	importSvc *importer.Service
	recordSvc *record.Service
}

func NewHandler(importSvc *importer.Service, recordSvc *record.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		recordSvc: recordSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported int             `json:"imported"`
	Records  []record.Record `json:"records"`
}

type conflictDTO struct {
	Incoming record.Record `json:"incoming"`
	Existing record.Record `json:"existing"`
}

type importConflictResponse struct {
	New       []record.Record `json:"new"`
	Conflicts []conflictDTO   `json:"conflicts"`
}

type confirmRequest struct {
	Records []record.Record `json:"records"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank, err := importer.ParseBank(r.FormValue("bank"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), importer.Params{
		Bank:      bank,
		AccountID: r.FormValue("account"),
		Reader:    file,
	})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       result.New,
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		if resp.New == nil {
			resp.New = []record.Record{}
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{Incoming: c.Incoming, Existing: c.Existing})
		}

		httpx.JSON(w, http.StatusConflict, resp)

		return
	}

	httpx.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

// confirmImport stores the drafts the client kept after reviewing conflicts.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	added, err := h.recordSvc.AppendBatch(r.Context(), req.Records)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	httpx.JSON(w, http.StatusCreated, toSuccessResponse(added))
}

func toSuccessResponse(records []record.Record) importSuccessResponse {
	if records == nil {
		records = []record.Record{}
	}

	return importSuccessResponse{
		Imported: len(records),
		Records:  records,
	}
}

// statusFor treats rejected input as a client error and anything else as ours.
func statusFor(err error) int {
	if record.IsValidation(err) ||
		errors.Is(err, importer.ErrUnknownBank) ||
		errors.Is(err, importer.ErrUnreadable) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
