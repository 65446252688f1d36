// Package category holds the fixed two-level taxonomy used to label, color and
// group records. Lookups never fail: unknown ids fall back to the raw id or to the
// caller's default.
package category

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tells whether a top-level category is meant for expenses or income.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Subcategory is a leaf of the taxonomy.
type Subcategory struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Color    string `yaml:"color,omitempty" json:"color,omitempty"`
	Icon     string `yaml:"icon,omitempty" json:"icon,omitempty"`
	ParentID string `yaml:"-" json:"parentId"`
}

// Category is a top-level node.
type Category struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Kind          Kind          `yaml:"kind" json:"kind"`
	Color         string        `yaml:"color,omitempty" json:"color,omitempty"`
	Icon          string        `yaml:"icon,omitempty" json:"icon,omitempty"`
	Subcategories []Subcategory `yaml:"subcategories,omitempty" json:"subcategories,omitempty"`
}

type file struct {
	Categories []Category `yaml:"categories"`
}

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// Hierarchy indexes the taxonomy for constant-time lookups. It is immutable after
// construction and safe for concurrent readers.
type Hierarchy struct {
	categories []Category
	byID       map[string]*Category
	subByID    map[string]*Subcategory
}

// Default returns the built-in taxonomy.
func Default() *Hierarchy {
	h, err := Parse(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("category: embedded taxonomy is invalid: %v", err))
	}

	return h
}

// LoadFile reads a taxonomy YAML file.
func LoadFile(path string) (*Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	return Parse(data)
}

// Parse builds a Hierarchy from YAML. Ids must be unique across both levels.
func Parse(data []byte) (*Hierarchy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}

	return New(f.Categories)
}

// New indexes the given categories.
func New(categories []Category) (*Hierarchy, error) {
	h := &Hierarchy{
		categories: make([]Category, len(categories)),
		byID:       make(map[string]*Category, len(categories)),
		subByID:    make(map[string]*Subcategory),
	}

	copy(h.categories, categories)

	for i := range h.categories {
		c := &h.categories[i]

		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("category %d: missing id", i)
		}

		if c.Kind == "" {
			c.Kind = KindExpense
		}

		if _, dup := h.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}

		if _, dup := h.subByID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}

		h.byID[c.ID] = c

		subs := make([]Subcategory, len(c.Subcategories))
		copy(subs, c.Subcategories)
		c.Subcategories = subs

		for j := range c.Subcategories {
			s := &c.Subcategories[j]
			s.ParentID = c.ID

			if s.ID == "" {
				return nil, fmt.Errorf("category %q subcategory %d: missing id", c.ID, j)
			}

			if _, dup := h.byID[s.ID]; dup {
				return nil, fmt.Errorf("duplicate category id %q", s.ID)
			}

			if _, dup := h.subByID[s.ID]; dup {
				return nil, fmt.Errorf("duplicate subcategory id %q", s.ID)
			}

			h.subByID[s.ID] = s
		}
	}

	return h, nil
}

// Categories lists top-level categories of the given kind, or all of them when
// kind is empty.
func (h *Hierarchy) Categories(kind Kind) []Category {
	out := make([]Category, 0, len(h.categories))

	for _, c := range h.categories {
		if kind != "" && c.Kind != kind {
			continue
		}

		out = append(out, c)
	}

	return out
}

// DisplayName resolves a category or subcategory id.
func (h *Hierarchy) DisplayName(id string) (string, bool) {
	if c, ok := h.byID[id]; ok {
		return c.Name, true
	}

	if s, ok := h.subByID[id]; ok {
		return s.Name, true
	}

	return "", false
}

// Label is DisplayName with the raw id as fallback.
func (h *Hierarchy) Label(id string) string {
	if name, ok := h.DisplayName(id); ok {
		return name
	}

	return id
}

// Color resolves the color of id. Subcategories without their own color inherit
// the parent's.
func (h *Hierarchy) Color(id, fallback string) string {
	if c, ok := h.byID[id]; ok && c.Color != "" {
		return c.Color
	}

	if s, ok := h.subByID[id]; ok {
		if s.Color != "" {
			return s.Color
		}

		return h.Color(s.ParentID, fallback)
	}

	return fallback
}

// Icon resolves the icon of id with the same inheritance as Color.
func (h *Hierarchy) Icon(id, fallback string) string {
	if c, ok := h.byID[id]; ok && c.Icon != "" {
		return c.Icon
	}

	if s, ok := h.subByID[id]; ok {
		if s.Icon != "" {
			return s.Icon
		}

		return h.Icon(s.ParentID, fallback)
	}

	return fallback
}

// Subcategories lists the children of categoryID.
func (h *Hierarchy) Subcategories(categoryID string) []Subcategory {
	c, ok := h.byID[categoryID]
	if !ok {
		return nil
	}

	return append([]Subcategory(nil), c.Subcategories...)
}

func (h *Hierarchy) IsSubcategory(id string) bool {
	_, ok := h.subByID[id]
	return ok
}

func (h *Hierarchy) IsCategory(id string) bool {
	_, ok := h.byID[id]
	return ok
}

// Parent returns the category owning subcategory id.
func (h *Hierarchy) Parent(id string) (string, bool) {
	s, ok := h.subByID[id]
	if !ok {
		return "", false
	}

	return s.ParentID, true
}

// Expand returns ids with every selected parent's children added, preserving the
// input order and dropping duplicates. This is the selection invariant the filter
// engine relies on: a parent in the set implies all of its children.
func (h *Hierarchy) Expand(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		add(id)

		if c, ok := h.byID[id]; ok {
			for _, s := range c.Subcategories {
				add(s.ID)
			}
		}
	}

	return out
}
