package storefront

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vitrine/storefront/internal/client"
	"github.com/vitrine/storefront/internal/core/domain"
)

const (
	maxStars = 5

	starFilled   = "★"
	starOutline  = "☆"
	heartFilled  = "♥"
	heartOutline = "♡"

	labelAddToCart      = "Add to cart"
	labelRemoveFromCart = "Remove from cart"
)

// Card is one rendered product tile.
type Card struct {
	ID            string
	Name          string
	Price         float64
	SalePrice     float64
	DiscountBadge string // empty when there is no discount
	FilledStars   int
	Stars         string
	VoteCount     int
	Favorite      bool
	Heart         string
	InCart        bool
	CartLabel     string
	Tags          []string
}

// RenderCard is a pure function of the product and the two membership lists.
func RenderCard(p client.Product, favorites, cart []string) Card {
	filled := int(math.Floor(p.Rating))
	filled = min(max(filled, 0), maxStars)

	card := Card{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		SalePrice:   domain.SalePrice(p.Price, p.DiscountPercent),
		FilledStars: filled,
		Stars:       strings.Repeat(starFilled, filled) + strings.Repeat(starOutline, maxStars-filled),
		VoteCount:   p.VoteCount,
		Favorite:    slices.Contains(favorites, p.ID),
		InCart:      slices.Contains(cart, p.ID),
		Tags:        p.Tags,
	}
	if p.DiscountPercent > 0 {
		card.DiscountBadge = fmt.Sprintf("-%g%%", p.DiscountPercent)
	}

	card.Heart = heartOutline
	if card.Favorite {
		card.Heart = heartFilled
	}
	card.CartLabel = labelAddToCart
	if card.InCart {
		card.CartLabel = labelRemoveFromCart
	}
	return card
}

// String renders the card as two terminal lines.
func (c Card) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  [%s]", c.Heart, c.Name, c.ID)
	if c.DiscountBadge != "" {
		fmt.Fprintf(&b, "  %s  $%.2f  (was $%.2f)", c.DiscountBadge, c.SalePrice, c.Price)
	} else {
		fmt.Fprintf(&b, "  $%.2f", c.SalePrice)
	}
	fmt.Fprintf(&b, "\n    %s (%d)  [%s]", c.Stars, c.VoteCount, c.CartLabel)
	if len(c.Tags) > 0 {
		fmt.Fprintf(&b, "  #%s", strings.Join(c.Tags, " #"))
	}
	return b.String()
}
