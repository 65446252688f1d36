package importer

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

type Bank string

const (
	BankCGD Bank = "cgd"
	// BankPocket is the CSV written by the export package.
	BankPocket Bank = "pocket"
)

var (
	ErrUnknownBank = errors.New("unknown bank")
	ErrUnreadable  = errors.New("unreadable export")
)

// Banks lists the supported export sources.
var Banks = []Bank{BankCGD, BankPocket}

func ParseBank(s string) (Bank, error) {
	b := Bank(s)
	if !slices.Contains(Banks, b) {
		return "", fmt.Errorf("%w: %s", ErrUnknownBank, s)
	}

	return b, nil
}

// Parser turns one bank export into draft records.
type Parser interface {
	Parse(r io.Reader) ([]record.Record, error)
}
