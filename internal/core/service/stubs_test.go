package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // by id
	nextID  int
	setErr  error
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Favorites = append([]string(nil), u.Favorites...)
	clone.Cart = append([]string(nil), u.Cart...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetList(_ context.Context, userID string, c domain.Collection, ids []string) error {
	if r.setErr != nil {
		return r.setErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	list := append([]string{}, ids...)
	switch c {
	case domain.CollectionFavorites:
		u.Favorites = list
	case domain.CollectionCart:
		u.Cart = list
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory product repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	products   map[string]*domain.Product
	nextID     int
	listCalls  int
	replaceErr error
	// afterList, when set, runs once after List has read the store.
	afterList func()
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.Tags = append([]string(nil), p.Tags...)
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	created := cloneProduct(p)
	created.ID = fmt.Sprintf("p%d", r.nextID)
	r.products[created.ID] = cloneProduct(created)
	return created, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, error) {
	r.listCalls++
	out := []*domain.Product{}
	for _, p := range r.products {
		if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
			continue
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return out, nil
}

func (r *stubProductRepo) Replace(_ context.Context, p *domain.Product) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// ---------------------------------------------------------------------------
// Cache and event stubs
// ---------------------------------------------------------------------------

// stubCache mirrors the generation guard of the Redis cache.
type stubCache struct {
	products    []*domain.Product
	present     bool
	generation  int64
	getErr      error
	invalidated int
	staleFills  int
}

func (c *stubCache) GetAll(context.Context) ([]*domain.Product, int64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	return c.products, c.generation, c.present, nil
}

func (c *stubCache) SetAll(_ context.Context, gen int64, products []*domain.Product) error {
	if gen != c.generation {
		c.staleFills++
		return nil
	}
	c.products = products
	c.present = true
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.invalidated++
	c.generation++
	c.products = nil
	c.present = false
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingSink) Emit(e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

var errStore = errors.New("store unavailable")
