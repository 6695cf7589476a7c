package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
	"github.com/vitrine/storefront/internal/pkg/metrics"
)

// PasswordCost is the bcrypt work factor used for every stored password.
const PasswordCost = 10

const defaultTokenTTL = 24 * time.Hour

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    logger,
	}
}

// Register creates a regular (non-admin) account.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.createUser(ctx, username, password, false)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", resultLabel(err)).Inc()
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// CreateUser creates an account with an explicit admin flag. Callers are
// expected to be admins themselves.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error) {
	user, err := s.createUser(ctx, username, password, isAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Bool("is_admin", isAdmin).Msg("user created")
	return user, nil
}

// EnsureAdmin creates the bootstrap admin unless the username is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.createUser(ctx, username, password, true)
	switch {
	case err == nil:
		s.logger.Info().Str("username", username).Msg("bootstrap admin created")
		return nil
	case errors.Is(err, domain.ErrUserExists):
		s.logger.Debug().Str("username", username).Msg("bootstrap admin already present")
		return nil
	default:
		return fmt.Errorf("ensure admin: %w", err)
	}
}

func (s *AuthService) createUser(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.Invalid("username and password are required")
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return nil, domain.Invalid("password must be at least %d characters", domain.MinPasswordLength)
	}

	// The unique index on username is the real guard; this check only
	// produces the conflict error without paying for a hash.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		Favorites:    []string{},
		Cart:         []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the credentials and issues a session token. Unknown users
// and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	token, user, err := s.login(ctx, username, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", resultLabel(err)).Inc()
		return "", nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return token, user, nil
}

func (s *AuthService) login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Authenticate verifies a session token and resolves its subject to the
// stored user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUnauthorized):
		return "denied"
	default:
		return "error"
	}
}
