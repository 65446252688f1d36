package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/kv"
)

func newSQLite(t *testing.T) kv.Store {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return kv.NewSQL(db, kv.DialectSQLite)
}

func TestStores(t *testing.T) {
	type testCase struct {
		name  string
		store func(t *testing.T) kv.Store
	}

	tests := []testCase{
		{name: "Memory", store: func(*testing.T) kv.Store { return kv.NewMemory() }},
		{name: "SQLite", store: newSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.store(t)

			_, err := s.Get(ctx, "records")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, s.Put(ctx, "records", []byte(`[1]`)))
			require.NoError(t, s.Put(ctx, "records", []byte(`[1,2]`)))
			require.NoError(t, s.Put(ctx, "other", []byte(`x`)))

			got, err := s.Get(ctx, "records")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))
		})
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", buf))

	buf[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
