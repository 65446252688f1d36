package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocket/internal/category"
)

// Repository persists the whole record collection at once. There are no partial
// writes: every mutation is a read-modify-write of the full slice.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=record
type Repository interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

type Service struct {
	repo       Repository
	categories *category.Hierarchy
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string

	// mu serialises read-modify-write cycles against the repository.
	mu       sync.Mutex
	revision atomic.Uint64
}

func NewService(repo Repository, categories *category.Hierarchy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	if categories == nil {
		categories = category.Default()
	}

	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger.With("component", "records"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Revision changes after every successful write. Callers use it as a cache key
// for results derived from GetAll.
func (s *Service) Revision() uint64 {
	return s.revision.Load()
}

// Categories exposes the hierarchy records are validated against.
func (s *Service) Categories() *category.Hierarchy {
	return s.categories
}

// GetAll returns every stored record. It fails open: when the repository cannot
// be read the error is logged and the seed dataset is returned instead. A
// fallback read bumps the revision so nothing derived from the seed outlives it.
func (s *Service) GetAll(ctx context.Context) []Record {
	records, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load records, using seed data", "error", err)
		s.revision.Add(1)

		return Seed()
	}

	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Normalize(r)
	}

	return out
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	for _, r := range records {
		if r.ID == id {
			n := Normalize(r)
			return &n, nil
		}
	}

	return nil, ErrNotFound
}

// SaveAll replaces the whole collection.
func (s *Service) SaveAll(ctx context.Context, records []Record) error {
	prepared, err := s.prepareBatch(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, prepared)
}

func (s *Service) Append(ctx context.Context, r Record) (*Record, error) {
	prepared, err := s.prepare(r)
	if err != nil {
		return nil, err
	}

	if err := s.mutate(ctx, func(records []Record) ([]Record, error) {
		return append(records, prepared), nil
	}); err != nil {
		return nil, err
	}

	return &prepared, nil
}

// AppendBatch validates every record before writing any of them.
func (s *Service) AppendBatch(ctx context.Context, batch []Record) ([]Record, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	prepared, err := s.prepareBatch(batch)
	if err != nil {
		return nil, err
	}

	if err := s.mutate(ctx, func(records []Record) ([]Record, error) {
		return append(records, prepared...), nil
	}); err != nil {
		return nil, err
	}

	return prepared, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Record, error) {
	var updated Record

	err := s.mutate(ctx, func(records []Record) ([]Record, error) {
		for i, r := range records {
			if r.ID != id {
				continue
			}

			next := patch.Apply(r)
			if err := checkType(next.Type); err != nil {
				return nil, err
			}

			next = Normalize(next)
			if err := Validate(next, s.categories); err != nil {
				return nil, err
			}

			next.ID = r.ID
			next.CreatedAt = r.CreatedAt
			next.UpdatedAt = s.now()
			records[i] = next
			updated = next

			return records, nil
		}

		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(records []Record) ([]Record, error) {
		for i, r := range records {
			if r.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}

		return nil, ErrNotFound
	})
}

// mutate runs one locked read-modify-write cycle.
func (s *Service) mutate(ctx context.Context, fn func([]Record) ([]Record, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load records for write", "error", err)
		return fmt.Errorf("loading records: %w", err)
	}

	next, err := fn(records)
	if err != nil {
		return err
	}

	return s.save(ctx, next)
}

func (s *Service) save(ctx context.Context, records []Record) error {
	if err := s.repo.Save(ctx, records); err != nil {
		s.logger.ErrorContext(ctx, "failed to save records", "error", err, "count", len(records))
		return fmt.Errorf("saving records: %w", err)
	}

	s.revision.Add(1)

	return nil
}

func (s *Service) prepare(r Record) (Record, error) {
	if err := checkType(r.Type); err != nil {
		return Record{}, err
	}

	r = Normalize(r)
	if err := Validate(r, s.categories); err != nil {
		return Record{}, err
	}

	if r.ID == "" {
		r.ID = s.newID()
	}

	now := s.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}

	r.UpdatedAt = now

	return r, nil
}

func (s *Service) prepareBatch(batch []Record) ([]Record, error) {
	out := make([]Record, len(batch))
	seen := make(map[string]struct{}, len(batch))

	for i, r := range batch {
		p, err := s.prepare(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("record %d: %w: %s", i, ErrDuplicateID, p.ID)
		}

		seen[p.ID] = struct{}{}
		out[i] = p
	}

	return out, nil
}

// ImportResult mirrors a two-phase import: when any incoming record looks like
// one already stored, nothing is written and the caller decides what to keep.
type ImportResult struct {
	Imported  []Record
	New       []Record
	Conflicts []Conflict
}

// errConflicts aborts the import write cycle without surfacing as a failure.
var errConflicts = errors.New("import has conflicts")

type Conflict struct {
	Incoming Record
	Existing Record
}

// ImportBatch appends batch unless some of it duplicates stored records (same
// day, amount and payee). In that case nothing is written and the split is
// returned for confirmation through AppendBatch.
func (s *Service) ImportBatch(ctx context.Context, batch []Record) (*ImportResult, error) {
	if len(batch) == 0 {
		return &ImportResult{}, nil
	}

	prepared, err := s.prepareBatch(batch)
	if err != nil {
		return nil, err
	}

	type dupKey struct {
		Date   string
		Amount float64
		Payee  string
	}

	keyOf := func(r Record) dupKey {
		return dupKey{
			Date:   r.Date.Format(time.DateOnly),
			Amount: r.Amount,
			Payee:  strings.ToLower(r.Payee),
		}
	}

	result := &ImportResult{}

	err = s.mutate(ctx, func(records []Record) ([]Record, error) {
		lookup := make(map[dupKey]Record, len(records))
		for _, r := range records {
			lookup[keyOf(Normalize(r))] = r
		}

		for _, p := range prepared {
			if existing, found := lookup[keyOf(p)]; found {
				result.Conflicts = append(result.Conflicts, Conflict{Incoming: p, Existing: existing})
				continue
			}

			result.New = append(result.New, p)
		}

		if len(result.Conflicts) > 0 {
			return nil, errConflicts
		}

		result.Imported = prepared
		result.New = nil

		return append(records, prepared...), nil
	})
	if errors.Is(err, errConflicts) {
		return result, nil
	}

	if err != nil {
		return nil, fmt.Errorf("import batch: %w", err)
	}

	return result, nil
}
