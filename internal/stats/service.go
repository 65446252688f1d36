package stats

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/cache"
	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// RecordSource is the read side of the record service.
type RecordSource interface {
	GetAll(ctx context.Context) []record.Record
	Revision() uint64
}

// Service runs the filter, sort and aggregation pipeline over the current
// records. Results are memoised per store revision and filter state, so a write
// invalidates everything derived from the previous collection. The revision
// only sees writes made through this process; stores shared with other
// writers should run WithoutMemo.
type Service struct {
	records    RecordSource
	engine     *filter.Engine
	categories *category.Hierarchy
	cache      *cache.LRUCache[uint64, any]
	memo       bool
	now        func() time.Time
}

func NewService(records RecordSource, h *category.Hierarchy, c *cache.LRUCache[uint64, any], now func() time.Time) *Service {
	if h == nil {
		h = category.Default()
	}

	if c == nil {
		c = cache.NewLRUCache[uint64, any](128, 5*time.Minute)
	}

	if now == nil {
		now = time.Now
	}

	return &Service{
		records:    records,
		engine:     filter.New(h),
		categories: h,
		cache:      c,
		memo:       true,
		now:        now,
	}
}

// WithoutMemo recomputes every result from a fresh read.
func (s *Service) WithoutMemo() *Service {
	s.memo = false
	return s
}

// Engine exposes the filter engine, e.g. for record titles.
func (s *Service) Engine() *filter.Engine {
	return s.engine
}

// Records is the records-view list: filtered, then sorted by the state's key.
// The slice may be shared with later callers and must not be modified.
func (s *Service) Records(ctx context.Context, st filter.State) []record.Record {
	return memo(s, "records", st, "", func() []record.Record {
		return s.engine.Query(s.records.GetAll(ctx), st)
	})
}

// Series buckets the filtered records of type t over the state's date range.
func (s *Service) Series(ctx context.Context, st filter.State, t record.Type) Series {
	return memo(s, "series", st, t, func() Series {
		return Bucketize(s.filtered(ctx, st), t, st.DateRange, st.DatePreset, s.now())
	})
}

func (s *Service) Categories(ctx context.Context, st filter.State, t record.Type) []Segment {
	return memo(s, "categories", st, t, func() []Segment {
		return ByCategory(s.filtered(ctx, st), t, s.categories)
	})
}

func (s *Service) Summary(ctx context.Context, st filter.State) Summary {
	return memo(s, "summary", st, "", func() Summary {
		return Summarize(s.filtered(ctx, st))
	})
}

func (s *Service) filtered(ctx context.Context, st filter.State) []record.Record {
	return memo(s, "filtered", st, "", func() []record.Record {
		return s.engine.Apply(s.records.GetAll(ctx), st)
	})
}

func memo[T any](s *Service, op string, st filter.State, t record.Type, fn func() T) T {
	if !s.memo {
		return fn()
	}

	key, ok := cacheKey(s.records.Revision(), op, st, t)
	if !ok {
		return fn()
	}

	v, ok := s.cache.GetOrCompute(key, func() any { return fn() }).(T)
	if !ok {
		slog.Warn("stats cache held an unexpected type", "op", op)
		return fn()
	}

	return v
}

// cacheKey hashes everything a result depends on. The sort key is part of the
// state, so list results sorted differently never collide.
func cacheKey(revision uint64, op string, st filter.State, t record.Type) (uint64, bool) {
	state, err := json.Marshal(st)
	if err != nil {
		slog.Error("failed to encode filter state for cache key", "error", err)
		return 0, false
	}

	h := fnv.New64a()

	var rev [8]byte
	binary.BigEndian.PutUint64(rev[:], revision)

	h.Write(rev[:])
	h.Write([]byte(op))
	h.Write([]byte{0})
	h.Write([]byte(t))
	h.Write([]byte{0})
	h.Write(state)

	return h.Sum64(), true
}
