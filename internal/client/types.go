package client

import "time"

type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginResult is what POST /login returns.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	SalePrice       float64   `json:"salePrice"`
	Description     string    `json:"description"`
	Photo           string    `json:"photo"`
	Tags            []string  `json:"tags"`
	DiscountPercent float64   `json:"discountPercent"`
	Rating          float64   `json:"rating"`
	VoteCount       int       `json:"voteCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Filter narrows ListProducts. The zero value lists everything.
type Filter struct {
	Query string
	Tag   string
}

type ProductInput struct {
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	Description     string   `json:"description,omitempty"`
	Photo           string   `json:"photo,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	DiscountPercent float64  `json:"discountPercent,omitempty"`
}

// ProductUpdate sends only the non-nil fields.
type ProductUpdate struct {
	Name            *string   `json:"name,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Photo           *string   `json:"photo,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	DiscountPercent *float64  `json:"discountPercent,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  *bool  `json:"isAdmin,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

type productEnvelope struct {
	Product Product `json:"product"`
}

type productList struct {
	Products []Product `json:"products"`
}

type userEnvelope struct {
	User User `json:"user"`
}

type toggleBody struct {
	ProductID string `json:"productId"`
}

type favoriteToggle struct {
	IsFavorite bool `json:"isFavorite"`
}

type cartToggle struct {
	IsInCart bool `json:"isInCart"`
}

type favoritesBody struct {
	Favorites []string `json:"favorites"`
}

type cartBody struct {
	Cart []string `json:"cart"`
}

type rateBody struct {
	Rate float64 `json:"rate"`
}
