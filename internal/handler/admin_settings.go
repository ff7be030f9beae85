package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/repository"
)

// AdminSettingsHandler serves shop profile, delivery pricing, opening
// hours and holiday management for shop admins. Writes to the hours
// config are validated strictly even though reads tolerate bad stored
// data; the resolver's fallbacks exist for legacy rows, not as an excuse
// to accept new garbage.
type AdminSettingsHandler struct {
	ShopRepo         *repository.ShopRepo
	DeliveryRepo     *repository.DeliveryRepo
	AvailabilityRepo *repository.AvailabilityRepo
	Resolver         *availability.Resolver
}

// NewAdminSettingsHandler constructs an AdminSettingsHandler.
func NewAdminSettingsHandler(shops *repository.ShopRepo, delivery *repository.DeliveryRepo, avail *repository.AvailabilityRepo, resolver *availability.Resolver) *AdminSettingsHandler {
	if shops == nil || delivery == nil || avail == nil || resolver == nil {
		panic("nil dependency passed to NewAdminSettingsHandler")
	}
	return &AdminSettingsHandler{
		ShopRepo:         shops,
		DeliveryRepo:     delivery,
		AvailabilityRepo: avail,
		Resolver:         resolver,
	}
}

// GetShop handles GET /v1/admin/shop and returns the admin's own shop
// profile with its live status.
func (h *AdminSettingsHandler) GetShop(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shop, err := h.ShopRepo.GetByID(c.Request().Context(), shopID)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	st, err := h.Resolver.Resolve(c.Request().Context(), shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": shop, "status": st})
}

// UpdateShop handles PUT /v1/admin/shop. Slug and active flag are
// platform-level properties and stay under super-admin control.
func (h *AdminSettingsHandler) UpdateShop(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.ShopRepo.UpdateInfo(c.Request().Context(), shopID, body.Name, body.Address, body.Phone); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update shop"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// ListDeliveryTiers handles GET /v1/admin/delivery-tiers.
func (h *AdminSettingsHandler) ListDeliveryTiers(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tiers, err := h.DeliveryRepo.List(c.Request().Context(), shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tiers})
}

// CreateDeliveryTier handles POST /v1/admin/delivery-tiers.
func (h *AdminSettingsHandler) CreateDeliveryTier(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		MinSubtotalCents uint32 `json:"min_subtotal_cents"`
		FeeCents         uint32 `json:"fee_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	tier := &repository.DeliveryTier{
		ShopID:           shopID,
		MinSubtotalCents: body.MinSubtotalCents,
		FeeCents:         body.FeeCents,
	}
	if err := h.DeliveryRepo.Create(c.Request().Context(), tier); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tier"})
	}
	return c.JSON(http.StatusCreated, tier)
}

// DeleteDeliveryTier handles DELETE /v1/admin/delivery-tiers/:id.
func (h *AdminSettingsHandler) DeleteDeliveryTier(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tier id"})
	}
	if err := h.DeliveryRepo.Delete(c.Request().Context(), shopID, id); err != nil {
		if errors.Is(err, repository.ErrTierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete tier"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetAvailability handles GET /v1/admin/availability. It returns the
// stored hours config (defaults when none has been saved yet) alongside
// the resolver's current verdict so the dashboard can show cause and
// effect together.
func (h *AdminSettingsHandler) GetAvailability(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	cfg, err := h.AvailabilityRepo.Config(ctx, shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cfg == nil {
		d := h.Resolver.Defaults()
		cfg = &availability.Config{
			OpeningTime:    d.Opening,
			ClosingTime:    d.Closing,
			Timezone:       d.Timezone,
			ManualOverride: availability.OverrideNone,
		}
	}
	st, err := h.Resolver.Resolve(ctx, shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"opening_time":    cfg.OpeningTime,
		"closing_time":    cfg.ClosingTime,
		"timezone":        cfg.Timezone,
		"manual_override": cfg.ManualOverride,
		"override_reason": cfg.OverrideReason,
		"status":          st,
	})
}

// availabilityBody is the PUT /v1/admin/availability request shape.
type availabilityBody struct {
	OpeningTime    string  `json:"opening_time"`
	ClosingTime    string  `json:"closing_time"`
	Timezone       string  `json:"timezone"`
	ManualOverride string  `json:"manual_override"`
	OverrideReason *string `json:"override_reason"`
}

// validate enforces the write contract: well-formed clocks, a loadable
// timezone and a known override value. Returns an error message or "".
func (b *availabilityBody) validate() string {
	if !availability.ValidClock(b.OpeningTime) || !availability.ValidClock(b.ClosingTime) {
		return "opening_time and closing_time must be HH:MM"
	}
	if !availability.ValidTimezone(b.Timezone) {
		return "unknown timezone"
	}
	if b.ManualOverride == "" {
		b.ManualOverride = availability.OverrideNone
	}
	if !availability.ValidOverride(b.ManualOverride) {
		return "manual_override must be none, force_open or force_close"
	}
	return ""
}

// UpdateAvailability handles PUT /v1/admin/availability and upserts the
// shop's hours config. The same handler flips manual overrides on and
// off; there is no separate toggle endpoint.
func (h *AdminSettingsHandler) UpdateAvailability(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body availabilityBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cfg := availability.Config{
		OpeningTime:    body.OpeningTime,
		ClosingTime:    body.ClosingTime,
		Timezone:       body.Timezone,
		ManualOverride: body.ManualOverride,
		OverrideReason: body.OverrideReason,
	}
	ctx := c.Request().Context()
	if err := h.AvailabilityRepo.UpsertConfig(ctx, shopID, cfg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save config"})
	}
	// echo the resulting status so the dashboard updates without a second call
	st, err := h.Resolver.Resolve(ctx, shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": st})
}

// ListHolidays handles GET /v1/admin/holidays.
func (h *AdminSettingsHandler) ListHolidays(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	holidays, err := h.AvailabilityRepo.ListHolidays(c.Request().Context(), shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": holidays})
}

// AddHoliday handles POST /v1/admin/holidays. The same date cannot be
// added twice for one shop.
func (h *AdminSettingsHandler) AddHoliday(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !availability.ValidDate(body.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	id, err := h.AvailabilityRepo.AddHoliday(c.Request().Context(), shopID, body.Date, body.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateHoliday) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "holiday already exists for this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add holiday"})
	}
	return c.JSON(http.StatusCreated, repository.HolidayRow{ID: id, Date: body.Date, Name: body.Name})
}

// DeleteHoliday handles DELETE /v1/admin/holidays/:id.
func (h *AdminSettingsHandler) DeleteHoliday(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid holiday id"})
	}
	if err := h.AvailabilityRepo.DeleteHoliday(c.Request().Context(), shopID, id); err != nil {
		if errors.Is(err, repository.ErrHolidayNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "holiday not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete holiday"})
	}
	return c.NoContent(http.StatusNoContent)
}
