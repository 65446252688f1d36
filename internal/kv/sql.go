package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQL stores entries in the kv_entries table created by the database migrations.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM kv_entries WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return value, nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, s.rebind(query), key, value); err != nil {
		return fmt.Errorf("putting %s: %w", key, err)
	}

	return nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *SQL) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder

	n := 0

	for _, c := range query {
		if c != '?' {
			b.WriteRune(c)
			continue
		}

		n++
		fmt.Fprintf(&b, "$%d", n)
	}

	return b.String()
}
