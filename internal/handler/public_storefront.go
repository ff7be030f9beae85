// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public storefront browsing API: shop
// info with its live status, the status polling endpoint, the menu and the
// running offers. Sensitive fields are filtered from responses.

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/repository"
)

// PublicHandler aggregates the repositories and the availability resolver
// needed for unauthenticated storefront requests.
type PublicHandler struct {
	ShopRepo  *repository.ShopRepo   // provides access to shop data
	MenuRepo  *repository.MenuRepo   // provides access to menu data
	OfferRepo *repository.OfferRepo  // provides access to offer data
	Resolver  *availability.Resolver // computes the live store status
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency
// is nil.
func NewPublicHandler(shops *repository.ShopRepo, menu *repository.MenuRepo, offers *repository.OfferRepo, resolver *availability.Resolver) *PublicHandler {
	if shops == nil || menu == nil || offers == nil || resolver == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{ShopRepo: shops, MenuRepo: menu, OfferRepo: offers, Resolver: resolver}
}

// PublicShop is a shop exposed via the public API, with only safe fields
// plus the live availability verdict.
type PublicShop struct {
	ID      uint64              `json:"id"`
	Name    string              `json:"name"`
	Slug    string              `json:"slug"`
	Address string              `json:"address"`
	Phone   string              `json:"phone"`
	Status  availability.Status `json:"status"`
}

// lookupShop resolves the :slug path param to an active shop, translating
// not-found into a 404 JSON response. The bool is false when a response
// has already been written.
func (h *PublicHandler) lookupShop(c echo.Context) (*repository.Shop, bool) {
	shop, err := h.ShopRepo.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return nil, false
	}
	return shop, true
}

// GetShop handles GET /v1/shops/:slug and returns the shop's public info
// together with its current store status.
func (h *PublicHandler) GetShop(c echo.Context) error {
	shop, ok := h.lookupShop(c)
	if !ok {
		return nil
	}
	st, err := h.Resolver.Resolve(c.Request().Context(), shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	return c.JSON(http.StatusOK, PublicShop{
		ID:      shop.ID,
		Name:    shop.Name,
		Slug:    shop.Slug,
		Address: shop.Address,
		Phone:   shop.Phone,
		Status:  st,
	})
}

// GetStatus handles GET /v1/shops/:slug/status, the storefront polling
// endpoint. It returns the resolver output alone so the badge can refresh
// cheaply.
func (h *PublicHandler) GetStatus(c echo.Context) error {
	shop, ok := h.lookupShop(c)
	if !ok {
		return nil
	}
	st, err := h.Resolver.Resolve(c.Request().Context(), shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	return c.JSON(http.StatusOK, st)
}

// GetMenu handles GET /v1/shops/:slug/menu and returns the shop's sections
// with their currently available items.
func (h *PublicHandler) GetMenu(c echo.Context) error {
	shop, ok := h.lookupShop(c)
	if !ok {
		return nil
	}
	menu, err := h.MenuRepo.PublicMenu(c.Request().Context(), shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sections": menu})
}

// GetOffers handles GET /v1/shops/:slug/offers and returns the offers
// currently running for the shop.
func (h *PublicHandler) GetOffers(c echo.Context) error {
	shop, ok := h.lookupShop(c)
	if !ok {
		return nil
	}
	offers, err := h.OfferRepo.ListActive(c.Request().Context(), shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if offers == nil {
		offers = []*repository.Offer{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": offers})
}
