package domain

import "time"

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// User models a storefront account. Favorites and Cart hold product ids in
// insertion order without duplicates.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	Favorites    []string  `json:"favorites"`
	Cart         []string  `json:"cart"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Collection names one of the per-user product id lists.
type Collection string

const (
	CollectionFavorites Collection = "favorites"
	CollectionCart      Collection = "cart"
)

// List returns the user's list for c. The result is never nil.
func (u *User) List(c Collection) []string {
	var list []string
	switch c {
	case CollectionFavorites:
		list = u.Favorites
	case CollectionCart:
		list = u.Cart
	}
	if list == nil {
		return []string{}
	}
	return list
}
