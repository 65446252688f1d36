package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

// labelSeparator joins labels inside the single labels column.
const labelSeparator = "|"

// Row is the CSV shape of a record. Amounts are signed with two decimals.
type Row struct {
	Date          string `csv:"date"`
	Type          string `csv:"type"`
	Amount        string `csv:"amount"`
	CategoryID    string `csv:"category"`
	SubcategoryID string `csv:"subcategory"`
	AccountID     string `csv:"account"`
	Payee         string `csv:"payee"`
	Note          string `csv:"note"`
	Labels        string `csv:"labels"`
	ID            string `csv:"id"`
}

func toRow(r record.Record) *Row {
	return &Row{
		Date:          r.Date.Format(time.RFC3339),
		Type:          string(r.Type),
		Amount:        decimal.NewFromFloat(r.Amount).StringFixed(2),
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		AccountID:     r.AccountID,
		Payee:         r.Payee,
		Note:          r.Note,
		Labels:        strings.Join(r.Labels, labelSeparator),
		ID:            r.ID,
	}
}

func (row *Row) record() (record.Record, error) {
	date, err := time.Parse(time.RFC3339, row.Date)
	if err != nil {
		return record.Record{}, fmt.Errorf("invalid date %q: %w", row.Date, err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	if err != nil {
		return record.Record{}, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}

	var labels []string
	if row.Labels != "" {
		labels = strings.Split(row.Labels, labelSeparator)
	}

	return record.Normalize(record.Record{
		ID:            row.ID,
		Type:          record.Type(row.Type),
		Amount:        amount.InexactFloat64(),
		Date:          date,
		CategoryID:    row.CategoryID,
		SubcategoryID: row.SubcategoryID,
		AccountID:     row.AccountID,
		Payee:         row.Payee,
		Note:          row.Note,
		Labels:        labels,
	}), nil
}

// Parser reads files produced by Write back into records, so an export can be
// imported into another store.
type Parser struct {
	delimiter rune
}

func NewParser(delimiter rune) *Parser {
	return &Parser{delimiter: delimiter}
}

func (p *Parser) Parse(r io.Reader) ([]record.Record, error) {
	var rows []*Row

	err := gocsv.UnmarshalCSV(p.reader(r), &rows)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	out := make([]record.Record, 0, len(rows))

	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		out = append(out, rec)
	}

	return out, nil
}

func (p *Parser) reader(r io.Reader) gocsv.CSVReader {
	cr := csv.NewReader(r)
	cr.Comma = p.delimiter
	cr.FieldsPerRecord = -1

	return cr
}
