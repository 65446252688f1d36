package store_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/record/store"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	in := []record.Record{{
		ID:         "r1",
		Type:       record.TypeExpense,
		Amount:     -12.3,
		Date:       time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC),
		CategoryID: "food",
		AccountID:  "cash",
		Labels:     []string{"trip"},
	}}

	require.NoError(t, s.Save(ctx, in))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
	assert.True(t, in[0].Date.Equal(got[0].Date))
	assert.Equal(t, []string{"trip"}, got[0].Labels)
}

func TestStore_CorruptBlobFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Put(ctx, store.Key, []byte(`{not json`)))

	s := store.New(backend)

	_, err := s.Load(ctx)
	require.Error(t, err)

	svc := record.NewService(s, nil, slog.New(slog.DiscardHandler))
	assert.Len(t, svc.GetAll(ctx), len(record.Seed()))
}

func TestStore_WithService(t *testing.T) {
	ctx := context.Background()
	svc := record.NewService(store.New(kv.NewMemory()), nil, nil)

	created, err := svc.Append(ctx, record.Record{
		Type:       record.TypeIncome,
		Amount:     100,
		Date:       time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		CategoryID: "income",
	})
	require.NoError(t, err)

	all := svc.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	require.NoError(t, svc.Remove(ctx, created.ID))
	assert.Empty(t, svc.GetAll(ctx))
}
