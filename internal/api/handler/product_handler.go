package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
)

// ProductHandler serves the catalog. Reads and ratings are public; the
// router guards writes with RequireAdmin.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List returns the catalog, optionally filtered by name substring and tag.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        q    query     string  false  "Case-insensitive name substring"
// @Param        tag  query     string  false  "Exact tag"
// @Success      200  {object}  productListResponse
// @Failure      500  {object}  map[string]string
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter := ports.ProductFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Tag:   strings.TrimSpace(c.QueryParam("tag")),
	}

	products, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductList(products))
}

// Get returns one product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productEnvelope
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productEnvelope{Product: toProductResponse(p)})
}

// Create adds a product.
//
// @Summary      Create a product (admin)
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  productEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productEnvelope{Message: "Product added", Product: toProductResponse(p)})
}

// Update applies a partial update.
//
// @Summary      Update a product (admin)
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  productEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch := req.toPatch()
	if patch.Empty() {
		return domain.Invalid("no fields to update")
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productEnvelope{Message: "Product updated", Product: toProductResponse(p)})
}

// Delete removes a product.
//
// @Summary      Delete a product (admin)
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}

// Rate records one anonymous vote.
//
// @Summary      Rate a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Product ID"
// @Param        body  body      rateRequest  true  "Vote between 0 and 5"
// @Success      200   {object}  productEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /products/{id}/rate [put]
func (h *ProductHandler) Rate(c echo.Context) error {
	var req rateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Rate == nil {
		return domain.Invalid("rate is required")
	}

	p, err := h.service.Rate(c.Request().Context(), c.Param("id"), *req.Rate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productEnvelope{Message: "Rating updated", Product: toProductResponse(p)})
}
