package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitrine/storefront/internal/client"
)

func TestRenderCard_Discount(t *testing.T) {
	card := RenderCard(client.Product{ID: "p1", Name: "Lamp", Price: 100, DiscountPercent: 25}, nil, nil)

	assert.InDelta(t, 75.0, card.SalePrice, 1e-9)
	assert.Equal(t, "-25%", card.DiscountBadge)
}

func TestRenderCard_NoDiscount(t *testing.T) {
	card := RenderCard(client.Product{ID: "p1", Price: 19.99}, nil, nil)

	assert.InDelta(t, 19.99, card.SalePrice, 1e-9)
	assert.Empty(t, card.DiscountBadge)
}

func TestRenderCard_Stars(t *testing.T) {
	cases := []struct {
		rating float64
		filled int
		stars  string
	}{
		{0, 0, "☆☆☆☆☆"},
		{3.7, 3, "★★★☆☆"},
		{4.0, 4, "★★★★☆"},
		{5, 5, "★★★★★"},
		{7, 5, "★★★★★"},
		{-1, 0, "☆☆☆☆☆"},
	}
	for _, tc := range cases {
		card := RenderCard(client.Product{Rating: tc.rating, VoteCount: 3}, nil, nil)
		assert.Equal(t, tc.filled, card.FilledStars, "rating %v", tc.rating)
		assert.Equal(t, tc.stars, card.Stars, "rating %v", tc.rating)
		assert.Equal(t, 3, card.VoteCount)
	}
}

func TestRenderCard_Membership(t *testing.T) {
	p := client.Product{ID: "p1", Name: "Lamp", Price: 10}

	card := RenderCard(p, []string{"p2"}, nil)
	assert.False(t, card.Favorite)
	assert.Equal(t, "♡", card.Heart)
	assert.False(t, card.InCart)
	assert.Equal(t, "Add to cart", card.CartLabel)

	card = RenderCard(p, []string{"p1"}, []string{"p3", "p1"})
	assert.True(t, card.Favorite)
	assert.Equal(t, "♥", card.Heart)
	assert.True(t, card.InCart)
	assert.Equal(t, "Remove from cart", card.CartLabel)
}

func TestCard_String(t *testing.T) {
	card := RenderCard(client.Product{ID: "p1", Name: "Lamp", Price: 100, DiscountPercent: 25, Rating: 3.5, VoteCount: 2, Tags: []string{"home"}}, []string{"p1"}, nil)

	assert.Equal(t, "♥ Lamp  [p1]  -25%  $75.00  (was $100.00)\n    ★★★☆☆ (2)  [Add to cart]  #home", card.String())
}
