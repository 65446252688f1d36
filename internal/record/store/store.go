package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// Key is where the record collection lives in the key-value store.
const Key = "records"

type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) Load(ctx context.Context) ([]record.Record, error) {
	data, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return []record.Record{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	return records, nil
}

func (s *Store) Save(ctx context.Context, records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	if err := s.kv.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	return nil
}
