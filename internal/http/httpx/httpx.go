// Package httpx holds the request and response helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/filter"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// DecodeState reads a filter state from the request body. Missing fields keep
// their defaults and an empty body is the default state. A calendar preset
// sent without explicit bounds is resolved around now.
func DecodeState(r *http.Request, now time.Time) (filter.State, error) {
	st := filter.Default()

	if err := json.NewDecoder(r.Body).Decode(&st); err != nil && !errors.Is(err, io.EOF) {
		return filter.State{}, err
	}

	if _, err := filter.ParseSortKey(string(st.Sort)); err != nil {
		return filter.State{}, err
	}

	if st.DateRange == nil {
		return st.WithPreset(st.DatePreset, now), nil
	}

	return st.WithDateRange(st.DateRange, st.DatePreset), nil
}
