package ports

import (
	"context"

	"github.com/vitrine/storefront/internal/core/domain"
)

// UserRepository persists user accounts (the credential store).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsername matches the username exactly (case-sensitive).
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// SetList overwrites one of the user's product id lists.
	SetList(ctx context.Context, userID string, c domain.Collection, ids []string) error
}
