// Package storefront holds the terminal client's state and the controller
// that keeps it in sync with the API.
package storefront

import (
	"slices"
	"sync"

	"github.com/vitrine/storefront/internal/client"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Session is the logged-in identity. The zero value means logged out.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (s Session) LoggedIn() bool { return s.Token != "" }

// State is everything the client shows. Fetches complete on other
// goroutines, so every access goes through mu.
type State struct {
	mu sync.RWMutex

	session   Session
	theme     Theme
	products  []client.Product
	visible   []client.Product
	favorites []string
	cart      []string

	// searchToken is the latest issued filter token. Starts at 0.
	searchToken uint64
}

func NewState() *State {
	return &State{
		theme:     ThemeLight,
		products:  []client.Product{},
		visible:   []client.Product{},
		favorites: []string{},
		cart:      []string{},
	}
}

func (s *State) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *State) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Products is the full cached catalog.
func (s *State) Products() []client.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

// Visible is the catalog as narrowed by the latest applied filter.
func (s *State) Visible() []client.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.visible)
}

func (s *State) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

func (s *State) Cart() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cart)
}

// Counters returns the favorites and cart badge counts.
func (s *State) Counters() (favorites, cart int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites), len(s.cart)
}

// SearchToken is the latest issued filter token.
func (s *State) SearchToken() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchToken
}

// Cards renders the visible products against the current memberships.
func (s *State) Cards() []Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards := make([]Card, 0, len(s.visible))
	for _, p := range s.visible {
		cards = append(cards, RenderCard(p, s.favorites, s.cart))
	}
	return cards
}

func (s *State) setSession(sess Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
}

// clearSession logs out and forgets the per-user lists.
func (s *State) clearSession() {
	s.mu.Lock()
	s.session = Session{}
	s.favorites = []string{}
	s.cart = []string{}
	s.mu.Unlock()
}

func (s *State) setTheme(t Theme) {
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
}

func (s *State) toggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeDark {
		s.theme = ThemeLight
	} else {
		s.theme = ThemeDark
	}
	return s.theme
}

// replaceCatalog installs a fresh load. token is the search token seen when
// the load started; if a filter was issued since, the visible products
// belong to that filter and are kept. Nil lists leave the current ones.
func (s *State) replaceCatalog(token uint64, products []client.Product, favorites, cart []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	if token == s.searchToken {
		s.visible = slices.Clone(products)
	}
	if favorites != nil {
		s.favorites = favorites
	}
	if cart != nil {
		s.cart = cart
	}
}

// setMembership reflects the membership the server reported after a toggle.
func (s *State) setMembership(list *[]string, id string, member bool) {
	idx := slices.Index(*list, id)
	switch {
	case member && idx < 0:
		*list = append(*list, id)
	case !member && idx >= 0:
		*list = slices.Delete(slices.Clone(*list), idx, idx+1)
	}
}

func (s *State) setFavorite(id string, member bool) {
	s.mu.Lock()
	s.setMembership(&s.favorites, id, member)
	s.mu.Unlock()
}

func (s *State) setInCart(id string, member bool) {
	s.mu.Lock()
	s.setMembership(&s.cart, id, member)
	s.mu.Unlock()
}

func (s *State) emptyCart() {
	s.mu.Lock()
	s.cart = []string{}
	s.mu.Unlock()
}

// nextSearchToken issues and returns a new filter token.
func (s *State) nextSearchToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchToken++
	return s.searchToken
}

func (s *State) isLatest(token uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return token == s.searchToken
}

// applyFilter sets the visible products only if token is still the latest
// issued one. The check and the write happen under one lock.
func (s *State) applyFilter(token uint64, products []client.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.searchToken {
		return false
	}
	s.visible = products
	return true
}

// updateProduct swaps in a fresh copy of one product wherever it is cached.
func (s *State) updateProduct(p client.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]client.Product{s.products, s.visible} {
		for i := range list {
			if list[i].ID == p.ID {
				list[i] = p
			}
		}
	}
}
