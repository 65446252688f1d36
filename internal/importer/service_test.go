package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	matchstore "github.com/MrJamesThe3rd/pocket/internal/matching/store"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	recordstore "github.com/MrJamesThe3rd/pocket/internal/record/store"
)

const conta = `Data mov.;Data-valor;Descrição;Montante;Saldo
30-01-2026;30-01-2026;COMPRA UBER *EATS;-18,40;100,00
29-01-2026;29-01-2026;TFI Wise;850,00;118,40
28-01-2026;28-01-2026;LEVANTAMENTO;-20,00;-731,60
`

func setup(t *testing.T) (*importer.Service, *record.Service) {
	t.Helper()

	backend := kv.NewMemory()

	matcher := matching.NewService(matchstore.New(backend))
	require.NoError(t, matcher.Learn(context.Background(), matching.Mapping{
		Pattern:       "UBER *EATS",
		Payee:         "Uber Eats",
		CategoryID:    "food",
		SubcategoryID: "food:restaurants",
	}))

	records := record.NewService(recordstore.New(backend), nil, nil)

	return importer.NewService(matcher, records), records
}

func TestService_Drafts(t *testing.T) {
	svc, _ := setup(t)

	drafts, err := svc.Drafts(context.Background(), importer.Params{
		Bank:      importer.BankCGD,
		AccountID: "Checking",
		Reader:    strings.NewReader(conta),
	})
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, "Uber Eats", drafts[0].Payee)
	assert.Equal(t, "COMPRA UBER *EATS", drafts[0].Note)
	assert.Equal(t, "food", drafts[0].CategoryID)
	assert.Equal(t, "food:restaurants", drafts[0].SubcategoryID)
	assert.Equal(t, "checking", drafts[0].AccountID)

	assert.Equal(t, record.TypeIncome, drafts[1].Type)
	assert.Equal(t, "income", drafts[1].CategoryID)

	assert.Equal(t, "other", drafts[2].CategoryID)
	assert.Equal(t, "LEVANTAMENTO", drafts[2].Payee)
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	svc, records := setup(t)

	params := func() importer.Params {
		return importer.Params{Bank: importer.BankCGD, Reader: strings.NewReader(conta)}
	}

	first, err := svc.Import(ctx, params())
	require.NoError(t, err)
	assert.Len(t, first.Imported, 3)
	assert.Len(t, records.GetAll(ctx), 3)

	second, err := svc.Import(ctx, params())
	require.NoError(t, err)
	assert.Empty(t, second.Imported)
	assert.Len(t, second.Conflicts, 3)
	assert.Len(t, records.GetAll(ctx), 3)

	for _, r := range records.GetAll(ctx) {
		assert.Equal(t, "cash", r.AccountID)
		assert.Equal(t, 2026, r.Date.Year())
	}
}

func TestService_UnknownBank(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Import(context.Background(), importer.Params{Bank: "bpi", Reader: strings.NewReader(conta)})
	assert.ErrorIs(t, err, importer.ErrUnknownBank)
}

func TestParseBank(t *testing.T) {
	b, err := importer.ParseBank("cgd")
	require.NoError(t, err)
	assert.Equal(t, importer.BankCGD, b)

	_, err = importer.ParseBank("bpi")
	assert.Error(t, err)
}

func TestService_PocketRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, records := setup(t)

	var buf strings.Builder
	require.NoError(t, export.Write(&buf, record.Seed(), ','))

	res, err := svc.Import(ctx, importer.Params{Bank: importer.BankPocket, Reader: strings.NewReader(buf.String())})
	require.NoError(t, err)
	assert.Len(t, res.Imported, len(record.Seed()))

	stored := records.GetAll(ctx)
	require.Len(t, stored, len(record.Seed()))

	seed := record.Seed()
	for i := range seed {
		assert.Equal(t, seed[i].ID, stored[i].ID)
		assert.Equal(t, seed[i].Amount, stored[i].Amount)
		assert.Equal(t, seed[i].AccountID, stored[i].AccountID)
		assert.Equal(t, seed[i].Labels, stored[i].Labels)
		assert.True(t, seed[i].Date.Equal(stored[i].Date))
	}
}
