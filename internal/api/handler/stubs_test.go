package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/storefront/internal/api/middleware"
	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withUser(c echo.Context, u *domain.User) echo.Context {
	c.Set(middleware.UserKey, u)
	return c
}

type stubAuthService struct {
	registerFn   func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn      func(ctx context.Context, username, password string) (string, *domain.User, error)
	createUserFn func(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error) {
	return s.createUserFn(ctx, username, password, isAdmin)
}

type stubProductService struct {
	listFn   func(ctx context.Context, f ports.ProductFilter) ([]*domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	createFn func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
	rateFn   func(ctx context.Context, id string, rate float64) (*domain.Product, error)
}

func (s *stubProductService) List(ctx context.Context, f ports.ProductFilter) ([]*domain.Product, error) {
	return s.listFn(ctx, f)
}

func (s *stubProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, in)
}

func (s *stubProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubProductService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProductService) Rate(ctx context.Context, id string, rate float64) (*domain.Product, error) {
	return s.rateFn(ctx, id, rate)
}

type toggleCall struct {
	userID    string
	c         domain.Collection
	productID string
}

// memCollections keeps lists in memory with the same toggle rules as the
// real service.
type memCollections struct {
	lists   map[domain.Collection][]string
	toggles []toggleCall
	cleared int
	err     error
}

func newMemCollections() *memCollections {
	return &memCollections{lists: map[domain.Collection][]string{}}
}

func (m *memCollections) Toggle(_ context.Context, userID string, c domain.Collection, productID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.toggles = append(m.toggles, toggleCall{userID, c, productID})
	list, member := domain.Toggle(m.lists[c], productID)
	m.lists[c] = list
	return member, nil
}

func (m *memCollections) List(_ context.Context, _ string, c domain.Collection) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.lists[c] == nil {
		return []string{}, nil
	}
	return m.lists[c], nil
}

func (m *memCollections) ClearCart(context.Context, string) error {
	if m.err != nil {
		return m.err
	}
	m.cleared++
	m.lists[domain.CollectionCart] = []string{}
	return nil
}
