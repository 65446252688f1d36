// Package cgd reads the CSV exports of Caixa Geral de Depósitos accounts and
// cards into draft records.
package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/pocket/internal/encoding"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

const dateLayout = "02-01-2006"

// Parser auto-detects which CGD layout (conta, extrato, cartão) it was given by
// matching header cells against the known profiles.
type Parser struct {
	loc *time.Location
}

func NewParser() *Parser {
	return &Parser{loc: time.UTC}
}

// In sets the location dates in the export are interpreted in.
func (p *Parser) In(loc *time.Location) *Parser {
	p.loc = loc
	return p
}

// Parse returns draft records carrying type, signed amount, date and the bank
// description as payee. Category and account are left for the caller.
func (p *Parser) Parse(r io.Reader) ([]record.Record, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	slog.Debug("parsing CGD export", "profile", profile.Name, "charset", charset, "rows", len(rows)-headerIdx-1)

	return p.parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps header names to their position in a row.
type colIndex map[string]int

// detectProfile scans rows for a header matching a known profile and returns
// it with its column map and row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows turns data rows into drafts. firstRow is the 0-based file index of
// rows[0], used for error messages.
func (p *Parser) parseRows(prof *Profile, cols colIndex, rows [][]string, firstRow int) ([]record.Record, error) {
	dateIdx := cols[prof.DateCol]
	descIdx := cols[prof.DescCol]

	var drafts []record.Record

	for i, row := range rows {
		rowNum := firstRow + i + 1

		date, ok := p.parseDate(row, dateIdx)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, ok := prof.amount(cols, row)
		if !ok {
			continue
		}

		typ := record.TypeIncome
		if amount.IsNegative() {
			typ = record.TypeExpense
		}

		drafts = append(drafts, record.Record{
			Type:   typ,
			Amount: amount.InexactFloat64(),
			Date:   date,
			Payee:  desc,
		})
	}

	return drafts, nil
}

// parseDate rejects empty and unparseable cells, which is how footer rows are
// skipped.
func (p *Parser) parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(dateLayout, s, p.loc)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// amount returns the signed amount of a row: negative for debits.
func (prof *Profile) amount(cols colIndex, row []string) (decimal.Decimal, bool) {
	switch prof.AmountMode {
	case amountSingle:
		return nonZero(cellValue(row, cols[prof.AmountCol]))
	case amountSplit:
		if d, ok := nonZero(cellValue(row, cols[prof.DebitCol])); ok {
			return d.Abs().Neg(), true
		}

		if d, ok := nonZero(cellValue(row, cols[prof.CreditCol])); ok {
			return d.Abs(), true
		}
	}

	return decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
