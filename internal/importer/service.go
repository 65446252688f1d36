package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

const (
	// categories drafts fall into when no learned mapping names one
	fallbackExpenseCategory = "other"
	fallbackIncomeCategory  = "income"
)

type Suggester interface {
	Suggest(ctx context.Context, raw string) (*matching.Mapping, error)
}

type RecordImporter interface {
	ImportBatch(ctx context.Context, batch []record.Record) (*record.ImportResult, error)
}

type Params struct {
	Bank      Bank
	AccountID string
	Reader    io.Reader
}

type Service struct {
	parsers   map[Bank]Parser
	suggester Suggester
	records   RecordImporter
}

func NewService(suggester Suggester, records RecordImporter) *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD:    cgd.NewParser(),
			BankPocket: export.NewParser(','),
		},
		suggester: suggester,
		records:   records,
	}
}

// Drafts parses an export into records ready to store. Rows the export left
// uncategorised get the params account, a learned payee and category mapping
// when one matches, and a fallback category otherwise.
func (s *Service) Drafts(ctx context.Context, p Params) ([]record.Record, error) {
	parser, ok := s.parsers[p.Bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, p.Bank)
	}

	drafts, err := parser.Parse(p.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, p.Bank, err)
	}

	accountID := account.Canonical(p.AccountID)

	for i := range drafts {
		d := &drafts[i]
		if d.CategoryID != "" {
			continue
		}

		d.AccountID = accountID

		s.applyMapping(ctx, d)

		if d.CategoryID == "" {
			d.CategoryID = fallbackExpenseCategory
			if d.Type == record.TypeIncome {
				d.CategoryID = fallbackIncomeCategory
			}
		}
	}

	return drafts, nil
}

// Import parses and stores an export. When some rows duplicate stored records
// nothing is written and the split is returned for the caller to confirm.
func (s *Service) Import(ctx context.Context, p Params) (*record.ImportResult, error) {
	drafts, err := s.Drafts(ctx, p)
	if err != nil {
		return nil, err
	}

	res, err := s.records.ImportBatch(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("importing records: %w", err)
	}

	slog.InfoContext(ctx, "import finished",
		"bank", p.Bank,
		"imported", len(res.Imported),
		"new", len(res.New),
		"conflicts", len(res.Conflicts))

	return res, nil
}

func (s *Service) applyMapping(ctx context.Context, d *record.Record) {
	if s.suggester == nil {
		return
	}

	m, err := s.suggester.Suggest(ctx, d.Payee)
	if err != nil {
		slog.WarnContext(ctx, "payee suggestion failed", "raw", d.Payee, "error", err)
		return
	}

	if m == nil {
		return
	}

	d.Note = d.Payee
	d.Payee = m.Payee

	if m.CategoryID != "" {
		d.CategoryID = m.CategoryID
		d.SubcategoryID = m.SubcategoryID
	}
}
