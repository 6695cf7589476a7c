package ports

import (
	"context"

	"github.com/vitrine/storefront/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	CreateUser(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error)
}
