package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/export"
	pocketHttp "github.com/MrJamesThe3rd/pocket/internal/http"
	exportHandler "github.com/MrJamesThe3rd/pocket/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/pocket/internal/http/matching"
	recordsHandler "github.com/MrJamesThe3rd/pocket/internal/http/records"
	statsHandler "github.com/MrJamesThe3rd/pocket/internal/http/stats"
	"github.com/MrJamesThe3rd/pocket/internal/http/taxonomy"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pocket/internal/matching/store"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	recordStore "github.com/MrJamesThe3rd/pocket/internal/record/store"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

func newServer(t *testing.T) (*httptest.Server, *record.Service) {
	t.Helper()

	var (
		backend         = kv.NewMemory()
		categories      = category.Default()
		recordService   = record.NewService(recordStore.New(backend), categories, nil)
		statsService    = stats.NewService(recordService, categories, nil, nil)
		matchingService = matching.NewService(matchingStore.New(backend))
		importService   = importer.NewService(matchingService, recordService)
		exportService   = export.NewService(statsService, categories)
	)

	router := pocketHttp.New(pocketHttp.Handlers{
		Records:  recordsHandler.NewHandler(recordService, statsService),
		Stats:    statsHandler.NewHandler(statsService),
		Taxonomy: taxonomy.NewHandler(categories),
		Import:   importHandler.NewHandler(importService, recordService),
		Matching: matchingHandler.NewHandler(matchingService),
		Export:   exportHandler.NewHandler(exportService),
	}, pocketHttp.Options{AllowedOrigins: []string{"*"}})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, recordService
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func seed(t *testing.T, svc *record.Service) {
	t.Helper()

	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }

	_, err := svc.AppendBatch(context.Background(), []record.Record{
		{ID: "rent", Type: record.TypeExpense, Amount: 850, Date: day(1), CategoryID: "housing", SubcategoryID: "housing:rent", Payee: "Landlord"},
		{ID: "coffee", Type: record.TypeExpense, Amount: 3.5, Date: day(3), CategoryID: "food", SubcategoryID: "food:coffee", Payee: "Cafe"},
		{ID: "salary", Type: record.TypeIncome, Amount: 2000, Date: day(5), CategoryID: "income", SubcategoryID: "income:salary", Payee: "ACME"},
	})
	require.NoError(t, err)
}

func TestRecords_CRUD(t *testing.T) {
	srv, _ := newServer(t)
	base := srv.URL + "/api/v1/records"

	resp := do(t, http.MethodPost, base, map[string]any{
		"type":       "expense",
		"amount":     12.5,
		"date":       "2025-03-02T10:00:00Z",
		"categoryId": "food",
		"labels":     []string{" lunch ", "lunch"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[record.Record](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, -12.5, created.Amount)
	assert.Equal(t, []string{"lunch"}, created.Labels)
	assert.Equal(t, "cash", created.AccountID)

	resp = do(t, http.MethodGet, base+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPatch, base+"/"+created.ID, map[string]any{"payee": "Deli"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Deli", decode[record.Record](t, resp).Payee)

	resp = do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]record.Record](t, resp), 1)

	resp = do(t, http.MethodDelete, base+"/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecords_Validation(t *testing.T) {
	type testCase struct {
		name string
		body map[string]any
	}

	testCases := []testCase{
		{
			name: "zero amount",
			body: map[string]any{"type": "expense", "amount": 0, "date": "2025-03-02T10:00:00Z", "categoryId": "food"},
		},
		{
			name: "missing category",
			body: map[string]any{"type": "expense", "amount": 1, "date": "2025-03-02T10:00:00Z"},
		},
		{
			name: "missing date",
			body: map[string]any{"type": "expense", "amount": 1, "categoryId": "food"},
		},
		{
			name: "unknown type",
			body: map[string]any{"type": "transfer", "amount": -9.5, "date": "2025-03-02T10:00:00Z", "categoryId": "food"},
		},
		{
			name: "foreign subcategory",
			body: map[string]any{"type": "expense", "amount": 1, "date": "2025-03-02T10:00:00Z", "categoryId": "food", "subcategoryId": "housing:rent"},
		},
	}

	srv, _ := newServer(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/records", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRecords_Batch(t *testing.T) {
	srv, svc := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/records/batch", []map[string]any{
		{"type": "expense", "amount": 5, "date": "2025-03-02T10:00:00Z", "categoryId": "food"},
		{"type": "expense", "amount": 0, "date": "2025-03-02T10:00:00Z", "categoryId": "food"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, svc.GetAll(context.Background()))
}

func TestRecords_Query(t *testing.T) {
	srv, svc := newServer(t)
	seed(t, svc)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/records/query", map[string]any{
		"searchCategory": "expense",
		"sort":           "amount-asc",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[[]record.Record](t, resp)
	require.Len(t, got, 2)
	assert.Equal(t, "coffee", got[0].ID)
	assert.Equal(t, "rent", got[1].ID)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/records/query", map[string]any{"sort": "payee"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStats(t *testing.T) {
	srv, svc := newServer(t)
	seed(t, svc)

	march := map[string]any{
		"dateRange":  map[string]any{"start": "2025-03-01T00:00:00Z", "end": "2025-03-31T23:59:59Z"},
		"datePreset": "month",
	}

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/stats/series?type=expense", march)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	series := decode[stats.Series](t, resp)
	assert.Equal(t, stats.GranularityMonth, series.Granularity)
	assert.InDelta(t, 853.5, series.Total, 1e-9)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/stats/categories?type=expense", march)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cats := decode[struct {
		Segments []stats.Segment `json:"segments"`
	}](t, resp)
	require.Len(t, cats.Segments, 2)
	assert.Equal(t, "housing", cats.Segments[0].ID)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/stats/summary", march)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decode[stats.Summary](t, resp)
	assert.InDelta(t, 2000, summary.Income, 1e-9)
	assert.InDelta(t, 853.5, summary.Expense, 1e-9)
	assert.Equal(t, 3, summary.Count)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/stats/series?type=transfer", march)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTaxonomy(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[[]map[string]string](t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cats := decode[map[string][]category.Category](t, resp)
	assert.NotEmpty(t, cats["expense"])
	assert.NotEmpty(t, cats["income"])
}

func TestImportAndExport(t *testing.T) {
	srv, svc := newServer(t)

	upload := func() *http.Response {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("bank", "cgd"))
		require.NoError(t, mw.WriteField("account", "checking"))

		fw, err := mw.CreateFormFile("file", "conta.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte("Data mov.;Data-valor;Descrição;Montante;Saldo\n" +
			"30-01-2026;30-01-2026;COMPRA UBER *EATS;-18,40;100,00\n" +
			"29-01-2026;29-01-2026;TFI Wise;850,00;118,40\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		resp, err := http.Post(srv.URL+"/api/v1/import", mw.FormDataContentType(), &body)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })

		return resp
	}

	resp := upload()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, svc.GetAll(context.Background()), 2)

	resp = upload()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	conflicts := decode[struct {
		Conflicts []json.RawMessage `json:"conflicts"`
	}](t, resp)
	assert.Len(t, conflicts.Conflicts, 2)
	assert.Len(t, svc.GetAll(context.Background()), 2)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/export", map[string]any{"sort": "date-asc"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	got, err := export.NewParser(',').Parse(resp.Body)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TFI Wise", got[0].Payee)
	assert.Equal(t, "checking", got[0].AccountID)
}

func TestImport_BadBank(t *testing.T) {
	srv, _ := newServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("bank", "bpi"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/import", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatching(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/matching", map[string]any{
		"pattern":    "UBER *EATS",
		"payee":      "Uber Eats",
		"categoryId": "food",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/matching/suggest?raw=COMPRA+UBER+*EATS+LISBOA", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[struct {
		Mapping *matching.Mapping `json:"mapping"`
	}](t, resp)
	require.NotNil(t, got.Mapping)
	assert.Equal(t, "Uber Eats", got.Mapping.Payee)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/matching", map[string]any{"pattern": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/matching/suggest", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/records", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
