package ports

import (
	"context"

	"github.com/vitrine/storefront/internal/core/domain"
)

// CollectionService toggles product ids in a user's favorites and cart.
type CollectionService interface {
	Toggle(ctx context.Context, userID string, c domain.Collection, productID string) (bool, error)
	List(ctx context.Context, userID string, c domain.Collection) ([]string, error)
	ClearCart(ctx context.Context, userID string) error
}
