package handler

import (
	"time"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
)

type createProductRequest struct {
	Name            string   `json:"name" validate:"required"`
	Price           float64  `json:"price" validate:"gt=0"`
	Description     string   `json:"description"`
	Photo           string   `json:"photo"`
	Tags            []string `json:"tags"`
	DiscountPercent float64  `json:"discountPercent" validate:"gte=0,lte=100"`
}

func (r createProductRequest) toInput() ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:            r.Name,
		Price:           r.Price,
		Description:     r.Description,
		Photo:           r.Photo,
		Tags:            r.Tags,
		DiscountPercent: r.DiscountPercent,
	}
}

// updateProductRequest is a partial update: absent fields are left alone.
// Tags is a pointer so an explicit empty list clears the tags.
type updateProductRequest struct {
	Name            *string   `json:"name"`
	Price           *float64  `json:"price" validate:"omitnil,gt=0"`
	Description     *string   `json:"description"`
	Photo           *string   `json:"photo"`
	Tags            *[]string `json:"tags"`
	DiscountPercent *float64  `json:"discountPercent" validate:"omitnil,gte=0,lte=100"`
}

func (r updateProductRequest) toPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		Name:            r.Name,
		Price:           r.Price,
		Description:     r.Description,
		Photo:           r.Photo,
		DiscountPercent: r.DiscountPercent,
	}
	if r.Tags != nil {
		patch.Tags = *r.Tags
		patch.TagsSet = true
	}
	return patch
}

type rateRequest struct {
	Rate *float64 `json:"rate"`
}

type productResponse struct {
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

type productListResponse struct {
	Products []productResponse `json:"products"`
}

type productEnvelope struct {
	Message string          `json:"message,omitempty"`
	Product productResponse `json:"product"`
}

func toProductResponse(p *domain.Product) productResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return productResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		SalePrice:       p.SalePrice(),
		Description:     p.Description,
		Photo:           p.Photo,
		Tags:            tags,
		DiscountPercent: p.DiscountPercent,
		Rating:          p.Rating,
		VoteCount:       p.VoteCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toProductList(products []*domain.Product) productListResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return productListResponse{Products: out}
}
