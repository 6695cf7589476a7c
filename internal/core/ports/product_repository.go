package ports

import (
	"context"

	"github.com/vitrine/storefront/internal/core/domain"
)

// ProductFilter narrows a product listing. Zero value = everything.
type ProductFilter struct {
	Query string // case-insensitive substring of the name
	Tag   string // exact tag
}

// IsZero reports whether the filter selects the whole catalog.
func (f ProductFilter) IsZero() bool {
	return f.Query == "" && f.Tag == ""
}

// ProductRepository persists products (the product store).
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	// Replace writes the full record; the last writer wins.
	Replace(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductCache holds the unfiltered catalog listing.
//
// GetAll reports the cache generation alongside a miss; SetAll only stores
// when that generation is still current, so a listing read before an
// Invalidate is never cached after it.
type ProductCache interface {
	GetAll(ctx context.Context) (products []*domain.Product, generation int64, ok bool, err error)
	SetAll(ctx context.Context, generation int64, products []*domain.Product) error
	Invalidate(ctx context.Context) error
}
