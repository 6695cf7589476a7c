package ports

import (
	"context"

	"github.com/vitrine/storefront/internal/core/domain"
)

// CreateProductInput carries the admin-supplied fields of a new product.
type CreateProductInput struct {
	Name            string
	Price           float64
	Description     string
	Photo           string
	Tags            []string
	DiscountPercent float64
}

// ProductService defines the catalog use cases.
type ProductService interface {
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Rate(ctx context.Context, id string, rate float64) (*domain.Product, error)
}
