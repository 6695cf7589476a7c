package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/vitrine/storefront/internal/client"
)

var errUnexpected = errors.New("unexpected call")

type fakeAPI struct {
	mu    sync.Mutex
	token string

	listFn      func(ctx context.Context, f client.Filter) ([]client.Product, error)
	favorites   []string
	cart        []string
	listsErr    error
	toggleErr   error
	loginResult client.LoginResult
	loginErr    error
	registered  []string
	rateFn      func(id string, rate float64) (client.Product, error)
	cleared     int
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Register(_ context.Context, username, _ string) error {
	f.mu.Lock()
	f.registered = append(f.registered, username)
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) Login(context.Context, string, string) (client.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAPI) ListProducts(ctx context.Context, filter client.Filter) ([]client.Product, error) {
	if f.listFn == nil {
		return nil, errUnexpected
	}
	return f.listFn(ctx, filter)
}

func (f *fakeAPI) Favorites(context.Context) ([]string, error) {
	if f.listsErr != nil {
		return nil, f.listsErr
	}
	return append([]string{}, f.favorites...), nil
}

func (f *fakeAPI) Cart(context.Context) ([]string, error) {
	if f.listsErr != nil {
		return nil, f.listsErr
	}
	return append([]string{}, f.cart...), nil
}

func (f *fakeAPI) toggle(list *[]string, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	for i, v := range *list {
		if v == id {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			return false, nil
		}
	}
	*list = append(*list, id)
	return true, nil
}

func (f *fakeAPI) ToggleFavorite(_ context.Context, id string) (bool, error) {
	return f.toggle(&f.favorites, id)
}

func (f *fakeAPI) ToggleCart(_ context.Context, id string) (bool, error) {
	return f.toggle(&f.cart, id)
}

func (f *fakeAPI) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.cart = nil
	return nil
}

func (f *fakeAPI) RateProduct(_ context.Context, id string, rate float64) (client.Product, error) {
	if f.rateFn == nil {
		return client.Product{}, errUnexpected
	}
	return f.rateFn(id, rate)
}

func catalog(ids ...string) []client.Product {
	out := make([]client.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, client.Product{ID: id, Name: "product " + id, Price: 10})
	}
	return out
}

func ids(products []client.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
