package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitrine/storefront/internal/core/domain"
)

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, discardLogger)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), "ana", "pass123")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsAdmin)
	assert.Empty(t, user.Favorites)
	assert.Empty(t, user.Cart)
	assert.NotEqual(t, "pass123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")))

	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pass123")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, "ana", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, "ana", "12345")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "at least 6 characters")

	// six bytes, three characters
	_, err = svc.Register(ctx, "ana", "ééé")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, "ana", "123456")
	assert.NoError(t, err)

	_, err = svc.Register(ctx, "bea", "éééééé")
	assert.NoError(t, err)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana", "pass123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ana", "other-pass")
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// usernames are case-sensitive
	_, err = svc.Register(ctx, "Ana", "pass123")
	assert.NoError(t, err)
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errStore
	svc := newAuthSvc(repo)

	_, err := svc.Register(context.Background(), "ana", "pass123")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStore)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "carol", "s3cret!")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "carol", "s3cret!")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "carol", user.Username)

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, registered.ID, claims.Subject)
	assert.Equal(t, "carol", claims.Username)
	assert.False(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthService_Login_NoInformationLeak(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave", "goodpass")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "dave", "badpass")
	_, _, unknownUser := svc.Login(ctx, "ghost", "goodpass")

	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "erin", "pass123")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "erin", "pass123")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "erin", user.Username)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other := NewAuthService(repo, "another-secret", time.Hour, discardLogger)
	_, err = other.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "frank", "pass123")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Login(ctx, "frank", "pass123")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_Authenticate_UserGone(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, "gina", "pass123")
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, "gina", "pass123")
	require.NoError(t, err)

	delete(repo.users, user.ID)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_CreateUserAndEnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "rootpass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "different"), "second call must be a no-op")

	admin, err := repo.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("rootpass")))

	staff, err := svc.CreateUser(ctx, "staff", "staffpass", true)
	require.NoError(t, err)
	assert.True(t, staff.IsAdmin)

	_, err = svc.CreateUser(ctx, "staff", "staffpass", false)
	assert.ErrorIs(t, err, domain.ErrUserExists)

	assert.Error(t, svc.EnsureAdmin(ctx, "shorty", "123"))
}
