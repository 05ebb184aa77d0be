// Package catalog serves the tool catalog and seeds it from embedded data.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var seedYAML []byte

type seedFile struct {
	Currency string     `yaml:"currency"`
	Tools    []seedTool `yaml:"tools"`
}

type seedTool struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	PriceCents  int64    `yaml:"price_cents"`
	Category    string   `yaml:"category"`
	Features    []string `yaml:"features"`
	Inactive    bool     `yaml:"inactive"`
}

// SeedTools parses the embedded catalog.
func SeedTools() ([]*domain.Tool, error) {
	return parseSeed(seedYAML)
}

func parseSeed(raw []byte) ([]*domain.Tool, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Currency == "" {
		f.Currency = "usd"
	}
	seen := make(map[string]bool, len(f.Tools))
	tools := make([]*domain.Tool, 0, len(f.Tools))
	for _, t := range f.Tools {
		category := domain.ToolCategory(t.Category)
		switch {
		case t.Slug == "" || t.Name == "":
			return nil, fmt.Errorf("catalog entry %q: slug and name are required", t.Slug)
		case seen[t.Slug]:
			return nil, fmt.Errorf("catalog entry %q: duplicate slug", t.Slug)
		case !category.Valid():
			return nil, fmt.Errorf("catalog entry %q: %w %q", t.Slug, domerrors.ErrInvalidCategory, t.Category)
		case t.PriceCents <= 0:
			return nil, fmt.Errorf("catalog entry %q: price must be positive", t.Slug)
		}
		seen[t.Slug] = true
		tools = append(tools, &domain.Tool{
			Slug:        t.Slug,
			Name:        t.Name,
			Description: t.Description,
			PriceCents:  t.PriceCents,
			Currency:    f.Currency,
			Features:    t.Features,
			Category:    category,
			IsActive:    !t.Inactive,
		})
	}
	return tools, nil
}

type Catalog struct {
	tools ports.ToolRepository
}

func New(tools ports.ToolRepository) *Catalog {
	return &Catalog{tools: tools}
}

// List returns active tools, optionally narrowed to one category.
func (c *Catalog) List(ctx context.Context, category string) ([]*domain.Tool, error) {
	cat := domain.ToolCategory(category)
	if cat != "" && !cat.Valid() {
		return nil, domerrors.ErrInvalidCategory
	}
	return c.tools.List(ctx, cat)
}

// Get returns an active tool by slug.
func (c *Catalog) Get(ctx context.Context, slug string) (*domain.Tool, error) {
	t, err := c.tools.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if t == nil || !t.IsActive {
		return nil, domerrors.ErrToolNotFound
	}
	return t, nil
}

// Seed upserts the embedded catalog by slug and returns how many tools it wrote.
// Existing rows keep their ids, so purchases stay linked.
func (c *Catalog) Seed(ctx context.Context) (int, error) {
	tools, err := SeedTools()
	if err != nil {
		return 0, err
	}
	for _, t := range tools {
		if err := c.tools.Upsert(ctx, t); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", t.Slug, err)
		}
	}
	return len(tools), nil
}
