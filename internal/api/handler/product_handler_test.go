package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
)

func TestProductHandler_List_PassesFilterAndSalePrice(t *testing.T) {
	var got ports.ProductFilter
	h := NewProductHandler(&stubProductService{
		listFn: func(_ context.Context, f ports.ProductFilter) ([]*domain.Product, error) {
			got = f
			return []*domain.Product{{ID: "p1", Name: "Lamp", Price: 100, DiscountPercent: 25}}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/products?q=+lam+&tag=home", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, ports.ProductFilter{Query: "lam", Tag: "home"}, got)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp productListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.InDelta(t, 75.0, resp.Products[0].SalePrice, 1e-9)
	assert.Equal(t, []string{}, resp.Products[0].Tags)
}

func TestProductHandler_List_EmptyCatalog(t *testing.T) {
	h := NewProductHandler(&stubProductService{
		listFn: func(context.Context, ports.ProductFilter) ([]*domain.Product, error) { return nil, nil },
	})

	c, rec := newTestContext(http.MethodGet, "/products", "")
	require.NoError(t, h.List(c))
	assert.JSONEq(t, `{"products":[]}`, rec.Body.String())
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	h := NewProductHandler(&stubProductService{
		getFn: func(context.Context, string) (*domain.Product, error) { return nil, domain.ErrProductNotFound },
	})

	c, _ := newTestContext(http.MethodGet, "/products/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	assert.ErrorIs(t, h.Get(c), domain.ErrNotFound)
}

func TestProductHandler_Create(t *testing.T) {
	var got ports.CreateProductInput
	h := NewProductHandler(&stubProductService{
		createFn: func(_ context.Context, in ports.CreateProductInput) (*domain.Product, error) {
			got = in
			return &domain.Product{ID: "p1", Name: in.Name, Price: in.Price, Tags: in.Tags}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/products", `{"name":"Lamp","price":40,"tags":["home"]}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, []string{"home"}, got.Tags)

	var resp productEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product added", resp.Message)
	assert.Equal(t, "p1", resp.Product.ID)
}

func TestProductHandler_Create_RejectsBadInput(t *testing.T) {
	h := NewProductHandler(&stubProductService{
		createFn: func(context.Context, ports.CreateProductInput) (*domain.Product, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	for _, body := range []string{
		`{"price":10}`,
		`{"name":"Lamp","price":0}`,
		`{"name":"Lamp","price":10,"discountPercent":150}`,
	} {
		c, _ := newTestContext(http.MethodPost, "/products", body)
		assert.ErrorIs(t, h.Create(c), domain.ErrValidation, body)
	}
}

func TestProductHandler_Update_BuildsPatch(t *testing.T) {
	var got domain.ProductPatch
	h := NewProductHandler(&stubProductService{
		updateFn: func(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
			assert.Equal(t, "p1", id)
			got = patch
			return &domain.Product{ID: id, Name: "Lamp", Price: 55}, nil
		},
	})

	c, rec := newTestContext(http.MethodPut, "/products/p1", `{"price":55,"tags":[]}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 55.0, *got.Price, 0)
	assert.Nil(t, got.Name)
	assert.Nil(t, got.DiscountPercent)
	assert.True(t, got.TagsSet)
	assert.Empty(t, got.Tags)
}

func TestProductHandler_Update_EmptyPatch(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	c, _ := newTestContext(http.MethodPut, "/products/p1", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	assert.ErrorIs(t, h.Update(c), domain.ErrValidation)
}

func TestProductHandler_Delete(t *testing.T) {
	var deleted string
	h := NewProductHandler(&stubProductService{
		deleteFn: func(_ context.Context, id string) error { deleted = id; return nil },
	})

	c, rec := newTestContext(http.MethodDelete, "/products/p1", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, h.Delete(c))

	assert.Equal(t, "p1", deleted)
	assert.JSONEq(t, `{"message":"Product deleted"}`, rec.Body.String())
}

func TestProductHandler_Rate(t *testing.T) {
	var gotRate float64
	h := NewProductHandler(&stubProductService{
		rateFn: func(_ context.Context, id string, rate float64) (*domain.Product, error) {
			gotRate = rate
			return &domain.Product{ID: id, Price: 10, Rating: 4, VoteCount: 1}, nil
		},
	})

	c, rec := newTestContext(http.MethodPut, "/products/p1/rate", `{"rate":4}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, h.Rate(c))

	assert.InDelta(t, 4.0, gotRate, 0)
	var resp productEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 4.0, resp.Product.Rating, 0)
	assert.Equal(t, 1, resp.Product.VoteCount)
}

func TestProductHandler_Rate_Missing(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	c, _ := newTestContext(http.MethodPut, "/products/p1/rate", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	err := h.Rate(c)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "rate is required")
}

func TestProductHandler_Rate_ZeroIsAVote(t *testing.T) {
	called := false
	h := NewProductHandler(&stubProductService{
		rateFn: func(_ context.Context, id string, rate float64) (*domain.Product, error) {
			called = true
			return &domain.Product{ID: id, VoteCount: 1}, nil
		},
	})

	c, _ := newTestContext(http.MethodPut, "/products/p1/rate", `{"rate":0}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	require.NoError(t, h.Rate(c))
	assert.True(t, called)
}
