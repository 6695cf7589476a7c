package domain

import (
	"math"
	"strings"
	"time"
)

const (
	MinRate = 0.0
	MaxRate = 5.0

	maxDiscount = 100.0
)

// Product is a catalog item. Rating is the running mean of all votes,
// rounded to one decimal place; the sale price is never stored.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Description     string    `json:"description"`
	Photo           string    `json:"photo"`
	Tags            []string  `json:"tags"`
	DiscountPercent float64   `json:"discountPercent"`
	Rating          float64   `json:"rating"`
	VoteCount       int       `json:"voteCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SalePrice is the price after the percentage discount.
func (p *Product) SalePrice() float64 {
	return SalePrice(p.Price, p.DiscountPercent)
}

// SalePrice applies discountPercent to price, rounded to cents.
func SalePrice(price, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return price
	}
	return math.Round(price*(1-discountPercent/100)*100) / 100
}

// ApplyVote folds one vote into the running mean and bumps the vote count.
func (p *Product) ApplyVote(rate float64) {
	votes := p.VoteCount + 1
	p.Rating = Round1((p.Rating*float64(p.VoteCount) + rate) / float64(votes))
	p.VoteCount = votes
}

// Round1 rounds x to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ValidateRate checks a vote is within [MinRate, MaxRate].
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || rate < MinRate || rate > MaxRate {
		return Invalid("rate must be between %g and %g", MinRate, MaxRate)
	}
	return nil
}

// Validate checks the invariants an admin-supplied product must satisfy.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalid("name is required")
	}
	if !(p.Price > 0) {
		return Invalid("price must be greater than 0")
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > maxDiscount {
		return Invalid("discountPercent must be between 0 and 100")
	}
	return nil
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping the
// order of first appearance.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// HasTag reports whether the product carries tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ProductPatch is a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name            *string
	Price           *float64
	Description     *string
	Photo           *string
	Tags            []string
	TagsSet         bool
	DiscountPercent *float64
}

// Empty reports whether the patch carries no field at all.
func (pp ProductPatch) Empty() bool {
	return pp.Name == nil && pp.Price == nil && pp.Description == nil &&
		pp.Photo == nil && !pp.TagsSet && pp.DiscountPercent == nil
}

// Apply overwrites every provided field of p and re-validates the result.
// p is left untouched when the patched product would be invalid.
func (pp ProductPatch) Apply(p *Product) error {
	next := *p
	if pp.Name != nil {
		next.Name = *pp.Name
	}
	if pp.Price != nil {
		next.Price = *pp.Price
	}
	if pp.Description != nil {
		next.Description = *pp.Description
	}
	if pp.Photo != nil {
		next.Photo = *pp.Photo
	}
	if pp.TagsSet {
		next.Tags = NormalizeTags(pp.Tags)
	}
	if pp.DiscountPercent != nil {
		next.DiscountPercent = *pp.DiscountPercent
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}
