package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/app"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func newConfig(t *testing.T, driver database.Driver) *config.Config {
	t.Helper()

	t.Setenv("STORAGE_DRIVER", string(driver))
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "pocket.db"))

	cfg, err := config.Load()
	require.NoError(t, err)

	return cfg
}

func TestNew(t *testing.T) {
	type testCase struct {
		name   string
		driver database.Driver
	}

	testCases := []testCase{
		{name: "memory", driver: database.DriverMemory},
		{name: "sqlite", driver: database.DriverSQLite},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			a, err := app.New(newConfig(t, tc.driver))
			require.NoError(t, err)
			defer a.Close()

			_, err = a.Records.Append(ctx, record.Record{
				Type:       record.TypeExpense,
				Amount:     9.99,
				Date:       time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
				CategoryID: "entertainment",
			})
			require.NoError(t, err)

			got := a.Stats.Records(ctx, filter.Default())
			require.Len(t, got, 1)
			assert.Equal(t, -9.99, got[0].Amount)
		})
	}
}

func TestNew_CategoriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`categories:
  - id: pets
    name: Pets
    kind: expense
    subcategories:
      - { id: "pets:vet", name: Vet }
`), 0o600))

	cfg := newConfig(t, database.DriverMemory)
	cfg.Storage.Categories = path

	a, err := app.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "Vet", a.Categories.Label("pets:vet"))
}

func TestNew_MissingCategoriesFile(t *testing.T) {
	cfg := newConfig(t, database.DriverMemory)
	cfg.Storage.Categories = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := app.New(cfg)
	assert.Error(t, err)
}

func TestNew_SharedSQLiteSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t, database.DriverSQLite)

	reader, err := app.New(cfg)
	require.NoError(t, err)
	defer reader.Close()

	writer, err := app.New(cfg)
	require.NoError(t, err)
	defer writer.Close()

	assert.Empty(t, reader.Stats.Records(ctx, filter.Default()))

	_, err = writer.Records.Append(ctx, record.Record{
		Type:       record.TypeIncome,
		Amount:     1200,
		Date:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		CategoryID: "income",
	})
	require.NoError(t, err)

	assert.Len(t, reader.Stats.Records(ctx, filter.Default()), 1)
}
