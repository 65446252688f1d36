// Package export writes record lists as CSV and plain-text summaries.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// Source yields the filtered, sorted records of a view.
type Source interface {
	Records(ctx context.Context, st filter.State) []record.Record
}

type Service struct {
	source     Source
	categories *category.Hierarchy
	delimiter  rune
}

func NewService(source Source, h *category.Hierarchy) *Service {
	if h == nil {
		h = category.Default()
	}

	return &Service{source: source, categories: h, delimiter: ','}
}

// WithDelimiter switches the field separator, e.g. to ';' for spreadsheet
// locales that use the comma as decimal mark.
func (s *Service) WithDelimiter(d rune) *Service {
	s.delimiter = d
	return s
}

// WriteCSV writes the records of st to w and returns how many were written.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, st filter.State) (int, error) {
	records := s.source.Records(ctx, st)

	if err := Write(w, records, s.delimiter); err != nil {
		return 0, err
	}

	return len(records), nil
}

// ExportFile writes the records of st to path, creating parent directories.
func (s *Service) ExportFile(ctx context.Context, st filter.State, path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	n, err := s.WriteCSV(ctx, f, st)
	if err != nil {
		return 0, err
	}

	return n, f.Close()
}

// Summary renders one line per record for pasting into a message.
func (s *Service) Summary(records []record.Record) string {
	var sb strings.Builder

	for _, r := range records {
		sign := "-"
		if r.Type == record.TypeIncome {
			sign = "+"
		}

		path := s.categories.Label(r.CategoryID)
		if r.SubcategoryID != "" {
			path += " / " + s.categories.Label(r.SubcategoryID)
		}

		title := r.Payee
		if title == "" {
			title = r.Note
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s € | %s\n",
			r.Date.Format("2006-01-02"), title, sign, formatAmount(r.Magnitude()), path)
	}

	return sb.String()
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Write marshals records as CSV rows with a header line.
func Write(w io.Writer, records []record.Record, delimiter rune) error {
	rows := make([]*Row, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}
