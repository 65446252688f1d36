// Package matching learns how raw bank descriptions map to payees and
// categories, and suggests them for new imports.
package matching

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrEmptyPattern = errors.New("pattern and payee are required")

// Mapping rewrites any raw description containing Pattern (case-insensitive).
type Mapping struct {
	Pattern       string    `json:"pattern"`
	Payee         string    `json:"payee"`
	CategoryID    string    `json:"categoryId,omitempty"`
	SubcategoryID string    `json:"subcategoryId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the best mapping for raw, or nil when none applies.
	FindMatch(ctx context.Context, raw string) (*Mapping, error)
	CreateMapping(ctx context.Context, m Mapping) error
	ListMappings(ctx context.Context) ([]Mapping, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Suggest returns the mapping for raw, or nil if nothing matches.
func (s *Service) Suggest(ctx context.Context, raw string) (*Mapping, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, raw)
}

// Learn remembers a mapping. A pattern learned again replaces the old mapping.
func (s *Service) Learn(ctx context.Context, m Mapping) error {
	m.Pattern = strings.TrimSpace(m.Pattern)
	m.Payee = strings.TrimSpace(m.Payee)
	m.CategoryID = strings.TrimSpace(m.CategoryID)
	m.SubcategoryID = strings.TrimSpace(m.SubcategoryID)

	if m.Pattern == "" || m.Payee == "" {
		return ErrEmptyPattern
	}

	m.CreatedAt = s.now()

	return s.repo.CreateMapping(ctx, m)
}

func (s *Service) List(ctx context.Context) ([]Mapping, error) {
	return s.repo.ListMappings(ctx)
}
