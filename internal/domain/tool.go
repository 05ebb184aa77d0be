package domain

import (
	"time"

	"github.com/google/uuid"
)

// ToolID is a value object for catalog item identity.
type ToolID struct{ uuid.UUID }

// NewToolID creates a new ToolID from uuid.
func NewToolID(id uuid.UUID) ToolID { return ToolID{UUID: id} }

// ParseToolID parses the canonical string form.
func ParseToolID(s string) (ToolID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ToolID{}, err
	}
	return NewToolID(id), nil
}

// String returns the canonical string form.
func (t ToolID) String() string { return t.UUID.String() }

// ToolCategory groups catalog items.
type ToolCategory string

const (
	CategoryIndividual ToolCategory = "individual"
	CategoryPackage    ToolCategory = "package"
)

// Valid reports whether c is a known category.
func (c ToolCategory) Valid() bool {
	return c == CategoryIndividual || c == CategoryPackage
}

// Tool is a purchasable catalog item. Prices are kept in minor units.
type Tool struct {
	ID          ToolID
	Slug        string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Features    []string
	Category    ToolCategory
	IsActive    bool
	CreatedAt   time.Time
}

// Price returns the price in major units (29.99 for 2999).
func (t *Tool) Price() float64 {
	return float64(t.PriceCents) / 100
}
