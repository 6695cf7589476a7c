package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
)

// CollectionHandler serves the authenticated user's favorites and cart.
type CollectionHandler struct {
	service ports.CollectionService
}

func NewCollectionHandler(service ports.CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

type toggleRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type favoriteToggleResponse struct {
	Message    string `json:"message"`
	IsFavorite bool   `json:"isFavorite"`
}

type cartToggleResponse struct {
	Message  string `json:"message"`
	IsInCart bool   `json:"isInCart"`
}

type favoritesResponse struct {
	Favorites []string `json:"favorites"`
}

type cartResponse struct {
	Cart []string `json:"cart"`
}

// ToggleFavorite adds or removes a product from the favorites.
//
// @Summary      Toggle a favorite
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      toggleRequest  true  "Product to toggle"
// @Success      200   {object}  favoriteToggleResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/favorites [post]
func (h *CollectionHandler) ToggleFavorite(c echo.Context) error {
	member, err := h.toggle(c, domain.CollectionFavorites)
	if err != nil {
		return err
	}
	msg := "Product removed from favorites"
	if member {
		msg = "Product added to favorites"
	}
	return c.JSON(http.StatusOK, favoriteToggleResponse{Message: msg, IsFavorite: member})
}

// ToggleCart adds or removes a product from the cart.
//
// @Summary      Toggle a cart item
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      toggleRequest  true  "Product to toggle"
// @Success      200   {object}  cartToggleResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/cart [post]
func (h *CollectionHandler) ToggleCart(c echo.Context) error {
	member, err := h.toggle(c, domain.CollectionCart)
	if err != nil {
		return err
	}
	msg := "Product removed from cart"
	if member {
		msg = "Product added to cart"
	}
	return c.JSON(http.StatusOK, cartToggleResponse{Message: msg, IsInCart: member})
}

func (h *CollectionHandler) toggle(c echo.Context, col domain.Collection) (bool, error) {
	user, err := currentUser(c)
	if err != nil {
		return false, err
	}
	var req toggleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return false, err
	}
	return h.service.Toggle(c.Request().Context(), user.ID, col, req.ProductID)
}

// Favorites lists the favorite product ids.
//
// @Summary      List favorites
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  favoritesResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/favorites [get]
func (h *CollectionHandler) Favorites(c echo.Context) error {
	ids, err := h.list(c, domain.CollectionFavorites)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoritesResponse{Favorites: ids})
}

// Cart lists the product ids in the cart.
//
// @Summary      List cart
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/cart [get]
func (h *CollectionHandler) Cart(c echo.Context) error {
	ids, err := h.list(c, domain.CollectionCart)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: ids})
}

func (h *CollectionHandler) list(c echo.Context, col domain.Collection) ([]string, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.service.List(c.Request().Context(), user.ID, col)
}

// ClearCart empties the cart.
//
// @Summary      Clear cart
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/cart/clear [post]
func (h *CollectionHandler) ClearCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.ClearCart(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Cart cleared"})
}
