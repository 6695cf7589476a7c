package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vitrine/storefront/internal/client"
)

// ErrNotLoggedIn is returned by actions that need a session.
var ErrNotLoggedIn = errors.New("not logged in")

// API is the part of the storefront API the controller drives.
type API interface {
	SetToken(token string)
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (client.LoginResult, error)
	ListProducts(ctx context.Context, f client.Filter) ([]client.Product, error)
	Favorites(ctx context.Context) ([]string, error)
	Cart(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, productID string) (bool, error)
	ToggleCart(ctx context.Context, productID string) (bool, error)
	ClearCart(ctx context.Context) error
	RateProduct(ctx context.Context, id string, rate float64) (client.Product, error)
}

// Controller applies API results to a State. State only ever reflects what
// the server answered.
type Controller struct {
	api   API
	state *State
	store *SessionStore
	log   zerolog.Logger
}

// NewController wires a controller. store may be nil, in which case
// nothing is persisted.
func NewController(api API, state *State, store *SessionStore, log zerolog.Logger) *Controller {
	return &Controller{api: api, state: state, store: store, log: log}
}

func (c *Controller) State() *State { return c.state }

// Restore loads the persisted session and theme, if any.
func (c *Controller) Restore() error {
	if c.store == nil {
		return nil
	}
	snap, err := c.store.Load()
	if err != nil {
		return err
	}
	if snap.Theme != "" {
		c.state.setTheme(snap.Theme)
	}
	if snap.Session.LoggedIn() {
		c.state.setSession(snap.Session)
		c.api.SetToken(snap.Session.Token)
	}
	return nil
}

// Load fetches the catalog, and the user's lists when logged in, in
// parallel. State is only replaced when every fetch succeeds.
func (c *Controller) Load(ctx context.Context) error {
	loggedIn := c.state.Session().LoggedIn()
	token := c.state.SearchToken()

	var (
		products        []client.Product
		favorites, cart []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.api.ListProducts(gctx, client.Filter{})
		return err
	})
	if loggedIn {
		g.Go(func() error {
			var err error
			favorites, err = c.api.Favorites(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			cart, err = c.api.Cart(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load storefront: %w", err)
	}

	c.state.replaceCatalog(token, products, favorites, cart)
	c.log.Debug().Int("products", len(products)).Bool("logged_in", loggedIn).Msg("storefront loaded")
	return nil
}

// Filter fetches a narrowed catalog. Only the most recently issued filter
// may change the visible products: a response that arrives after a newer
// filter was issued is dropped, errors included. applied reports whether
// this call's result was used.
func (c *Controller) Filter(ctx context.Context, query, tag string) (applied bool, err error) {
	token := c.state.nextSearchToken()

	products, err := c.api.ListProducts(ctx, client.Filter{Query: query, Tag: tag})
	if err != nil {
		if !c.state.isLatest(token) {
			c.log.Debug().Uint64("token", token).Err(err).Msg("stale filter error discarded")
			return false, nil
		}
		return false, fmt.Errorf("filter products: %w", err)
	}

	if !c.state.applyFilter(token, products) {
		c.log.Debug().Uint64("token", token).Msg("stale filter result discarded")
		return false, nil
	}
	return true, nil
}

// ToggleFavorite flips the product's favorite membership on the server and
// mirrors the answer. On failure state is unchanged.
func (c *Controller) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	if !c.state.Session().LoggedIn() {
		return false, ErrNotLoggedIn
	}
	member, err := c.api.ToggleFavorite(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", productID, err)
	}
	c.state.setFavorite(productID, member)
	return member, nil
}

// ToggleCart is ToggleFavorite for the cart.
func (c *Controller) ToggleCart(ctx context.Context, productID string) (bool, error) {
	if !c.state.Session().LoggedIn() {
		return false, ErrNotLoggedIn
	}
	member, err := c.api.ToggleCart(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("toggle cart %s: %w", productID, err)
	}
	c.state.setInCart(productID, member)
	return member, nil
}

func (c *Controller) ClearCart(ctx context.Context) error {
	if !c.state.Session().LoggedIn() {
		return ErrNotLoggedIn
	}
	if err := c.api.ClearCart(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	c.state.emptyCart()
	return nil
}

// Rate submits a vote and refreshes the cached product with the server's
// new rating.
func (c *Controller) Rate(ctx context.Context, productID string, rate float64) (client.Product, error) {
	p, err := c.api.RateProduct(ctx, productID, rate)
	if err != nil {
		return client.Product{}, fmt.Errorf("rate %s: %w", productID, err)
	}
	c.state.updateProduct(p)
	return p, nil
}

// Register validates locally before calling the API.
func (c *Controller) Register(ctx context.Context, username, password, confirm string) error {
	if err := ValidateRegistration(username, password, confirm); err != nil {
		return err
	}
	return c.api.Register(ctx, username, password)
}

// Login stores the session in state, on the API client and on disk.
func (c *Controller) Login(ctx context.Context, username, password string) (Session, error) {
	res, err := c.api.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	sess := Session{Token: res.Token, Username: res.User.Username, IsAdmin: res.User.IsAdmin}
	c.api.SetToken(sess.Token)
	c.state.setSession(sess)
	return sess, c.persist()
}

// Logout forgets the session and the per-user lists. The theme is kept.
func (c *Controller) Logout() error {
	c.api.SetToken("")
	c.state.clearSession()
	return c.persist()
}

// ToggleTheme switches between light and dark and remembers the choice.
func (c *Controller) ToggleTheme() (Theme, error) {
	t := c.state.toggleTheme()
	return t, c.persist()
}

func (c *Controller) persist() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(Snapshot{Session: c.state.Session(), Theme: c.state.Theme()})
}
