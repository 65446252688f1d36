package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
)

// Key is where mappings live in the key-value store.
const Key = "payee_mappings"

type Store struct {
	kv kv.Store
	mu sync.Mutex
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

// FindMatch picks the longest pattern contained in raw, newest first on ties.
func (s *Store) FindMatch(ctx context.Context, raw string) (*matching.Mapping, error) {
	mappings, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding match: %w", err)
	}

	lower := strings.ToLower(raw)

	var best *matching.Mapping

	for i := range mappings {
		m := &mappings[i]
		if !strings.Contains(lower, strings.ToLower(m.Pattern)) {
			continue
		}

		if best == nil || better(m, best) {
			best = m
		}
	}

	return best, nil
}

func better(a, b *matching.Mapping) bool {
	if c := cmp.Compare(len(a.Pattern), len(b.Pattern)); c != 0 {
		return c > 0
	}

	return a.CreatedAt.After(b.CreatedAt)
}

func (s *Store) CreateMapping(ctx context.Context, m matching.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	mappings = slices.DeleteFunc(mappings, func(existing matching.Mapping) bool {
		return strings.EqualFold(existing.Pattern, m.Pattern)
	})
	mappings = append(mappings, m)

	data, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}

	if err := s.kv.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) ListMappings(ctx context.Context) ([]matching.Mapping, error) {
	mappings, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}

	slices.SortStableFunc(mappings, func(a, b matching.Mapping) int {
		return cmp.Compare(strings.ToLower(a.Pattern), strings.ToLower(b.Pattern))
	})

	return mappings, nil
}

func (s *Store) load(ctx context.Context) ([]matching.Mapping, error) {
	data, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var mappings []matching.Mapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("decoding mappings: %w", err)
	}

	return mappings, nil
}
