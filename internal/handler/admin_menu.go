package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/repository"
)

// AdminMenuHandler serves the menu management endpoints for shop admins.
// The shop scope always comes from the JWT claim, never from the request,
// so one shop's admin can never touch another shop's menu.
type AdminMenuHandler struct {
	MenuRepo *repository.MenuRepo
}

// NewAdminMenuHandler constructs an AdminMenuHandler.
func NewAdminMenuHandler(menu *repository.MenuRepo) *AdminMenuHandler {
	if menu == nil {
		panic("nil repository passed to NewAdminMenuHandler")
	}
	return &AdminMenuHandler{MenuRepo: menu}
}

// ListSections handles GET /v1/admin/menu/sections.
func (h *AdminMenuHandler) ListSections(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sections, err := h.MenuRepo.ListSections(c.Request().Context(), shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": sections})
}

// CreateSection handles POST /v1/admin/menu/sections.
func (h *AdminMenuHandler) CreateSection(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	section := &repository.MenuSection{ShopID: shopID, Name: body.Name, Position: body.Position}
	if err := h.MenuRepo.CreateSection(c.Request().Context(), section); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create section"})
	}
	return c.JSON(http.StatusCreated, section)
}

// UpdateSection handles PUT /v1/admin/menu/sections/:id.
func (h *AdminMenuHandler) UpdateSection(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section id"})
	}
	var body struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.MenuRepo.UpdateSection(c.Request().Context(), shopID, id, body.Name, body.Position); err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update section"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// DeleteSection handles DELETE /v1/admin/menu/sections/:id. A section
// that still holds items cannot be deleted.
func (h *AdminMenuHandler) DeleteSection(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section id"})
	}
	if err := h.MenuRepo.DeleteSection(c.Request().Context(), shopID, id); err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "section still has items"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete section"})
	}
	return c.NoContent(http.StatusNoContent)
}

// itemBody is the request shape shared by item create and update.
type itemBody struct {
	SectionID   uint64  `json:"section_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	IsVeg       bool    `json:"is_veg"`
	IsAvailable *bool   `json:"is_available"`
	ImageURL    *string `json:"image_url"`
}

func (b *itemBody) validate() string {
	b.Name = strings.TrimSpace(b.Name)
	if b.SectionID == 0 {
		return "section_id is required"
	}
	if b.Name == "" {
		return "name is required"
	}
	if b.PriceCents == 0 {
		return "price_cents must be positive"
	}
	return ""
}

// ListItems handles GET /v1/admin/menu/items and returns every item
// including unavailable ones.
func (h *AdminMenuHandler) ListItems(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.MenuRepo.ListItems(c.Request().Context(), shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateItem handles POST /v1/admin/menu/items.
func (h *AdminMenuHandler) CreateItem(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body itemBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	item := &repository.MenuItem{
		ShopID:      shopID,
		SectionID:   body.SectionID,
		Name:        body.Name,
		Description: body.Description,
		PriceCents:  body.PriceCents,
		IsVeg:       body.IsVeg,
		IsAvailable: body.IsAvailable == nil || *body.IsAvailable,
		ImageURL:    body.ImageURL,
	}
	if err := h.MenuRepo.CreateItem(c.Request().Context(), item); err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create item"})
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /v1/admin/menu/items/:id.
func (h *AdminMenuHandler) UpdateItem(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var body itemBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	item := &repository.MenuItem{
		ID:          id,
		ShopID:      shopID,
		SectionID:   body.SectionID,
		Name:        body.Name,
		Description: body.Description,
		PriceCents:  body.PriceCents,
		IsVeg:       body.IsVeg,
		IsAvailable: body.IsAvailable == nil || *body.IsAvailable,
		ImageURL:    body.ImageURL,
	}
	if err := h.MenuRepo.UpdateItem(c.Request().Context(), item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update item"})
	}
	return c.JSON(http.StatusOK, item)
}

// SetAvailability handles PATCH /v1/admin/menu/items/:id/availability,
// the quick out-of-stock toggle.
func (h *AdminMenuHandler) SetAvailability(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var body struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := c.Bind(&body); err != nil || body.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available is required"})
	}
	if err := h.MenuRepo.SetItemAvailability(c.Request().Context(), shopID, id, *body.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update item"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_available": *body.IsAvailable})
}

// DeleteItem handles DELETE /v1/admin/menu/items/:id.
func (h *AdminMenuHandler) DeleteItem(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.MenuRepo.DeleteItem(c.Request().Context(), shopID, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete item"})
	}
	return c.NoContent(http.StatusNoContent)
}
