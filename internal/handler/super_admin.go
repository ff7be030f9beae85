package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/config"
	"github.com/dineinbox/shop-ordering/internal/repository"
)

// slugRe matches lowercase URL slugs: letters, digits and single hyphens.
var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// shopDirectory is the slice of the shop repository the console depends
// on.
type shopDirectory interface {
	Create(ctx context.Context, s *repository.Shop) error
	GetByID(ctx context.Context, id uint64) (*repository.Shop, error)
	ListAll(ctx context.Context) ([]*repository.Shop, error)
	ListActiveIDs(ctx context.Context) ([]uint64, error)
	UpdateInfo(ctx context.Context, id uint64, name, address, phone string) error
	SetActive(ctx context.Context, id uint64, active bool) error
}

// availabilityWriter covers the per-shop writes behind the bulk
// operations.
type availabilityWriter interface {
	UpsertConfig(ctx context.Context, shopID uint64, cfg availability.Config) error
	AddHolidayIfAbsent(ctx context.Context, shopID uint64, date, name string) (bool, error)
}

// SuperAdminHandler serves the platform console: shop provisioning,
// admin accounts, offers, bulk availability operations and analytics.
type SuperAdminHandler struct {
	Cfg              config.Config
	ShopRepo         shopDirectory
	UserRepo         *repository.UserRepo
	OfferRepo        *repository.OfferRepo
	AvailabilityRepo availabilityWriter
	AnalyticsRepo    *repository.AnalyticsRepo
	Log              zerolog.Logger
}

// NewSuperAdminHandler constructs a SuperAdminHandler.
func NewSuperAdminHandler(cfg config.Config, shops shopDirectory, users *repository.UserRepo, offers *repository.OfferRepo, avail availabilityWriter, analytics *repository.AnalyticsRepo, log zerolog.Logger) *SuperAdminHandler {
	if shops == nil || users == nil || offers == nil || avail == nil || analytics == nil {
		panic("nil dependency passed to NewSuperAdminHandler")
	}
	return &SuperAdminHandler{
		Cfg:              cfg,
		ShopRepo:         shops,
		UserRepo:         users,
		OfferRepo:        offers,
		AvailabilityRepo: avail,
		AnalyticsRepo:    analytics,
		Log:              log,
	}
}

// ListShops handles GET /v1/super/shops and returns every shop, active or
// not.
func (h *SuperAdminHandler) ListShops(c echo.Context) error {
	shops, err := h.ShopRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shops})
}

// CreateShop handles POST /v1/super/shops. It provisions the shop and,
// when admin credentials are supplied, its first SHOP_ADMIN account in
// the same request. A user creation failure after the shop insert is
// reported but does not roll the shop back; the account can be created
// again with another call.
func (h *SuperAdminHandler) CreateShop(c echo.Context) error {
	var body struct {
		Name          string `json:"name"`
		Slug          string `json:"slug"`
		Address       string `json:"address"`
		Phone         string `json:"phone"`
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Slug = strings.ToLower(strings.TrimSpace(body.Slug))
	if body.Name == "" || body.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}
	if !slugRe.MatchString(body.Slug) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug must contain only lowercase letters, digits and hyphens"})
	}
	if (body.AdminEmail == "") != (body.AdminPassword == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "admin_email and admin_password must be provided together"})
	}
	ctx := c.Request().Context()
	shop := &repository.Shop{
		Name:    body.Name,
		Slug:    body.Slug,
		Address: body.Address,
		Phone:   body.Phone,
	}
	if err := h.ShopRepo.Create(ctx, shop); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create shop"})
	}
	resp := echo.Map{"shop": shop}
	if body.AdminEmail != "" {
		uid, err := h.UserRepo.Create(ctx, body.AdminEmail, body.AdminPassword, "SHOP_ADMIN", &shop.ID, h.Cfg.BcryptCost)
		if err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				resp["admin_error"] = "email already exists"
			} else {
				h.Log.Error().Err(err).Uint64("shop_id", shop.ID).Msg("shop admin creation failed")
				resp["admin_error"] = "failed to create admin user"
			}
		} else {
			resp["admin_user_id"] = uid
		}
	}
	return c.JSON(http.StatusCreated, resp)
}

// UpdateShop handles PUT /v1/super/shops/:id, editing a shop's profile on
// its behalf. The slug stays fixed after creation so storefront links
// never break.
func (h *SuperAdminHandler) UpdateShop(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop id"})
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
	if err := h.ShopRepo.UpdateInfo(c.Request().Context(), id, body.Name, body.Address, body.Phone); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update shop"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// SetShopActive handles PATCH /v1/super/shops/:id/active. Deactivated
// shops disappear from the public API but keep their data.
func (h *SuperAdminHandler) SetShopActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop id"})
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil || body.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active is required"})
	}
	if err := h.ShopRepo.SetActive(c.Request().Context(), id, *body.IsActive); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update shop"})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_active": *body.IsActive})
}

// CreateUser handles POST /v1/super/users, provisioning additional
// SHOP_ADMIN accounts or more super admins. SHOP_ADMIN requires a
// shop_id; SUPER_ADMIN forbids one.
func (h *SuperAdminHandler) CreateUser(c echo.Context) error {
	var body struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
		ShopID   *uint64 `json:"shop_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	switch body.Role {
	case "SHOP_ADMIN":
		if body.ShopID == nil || *body.ShopID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shop_id is required for SHOP_ADMIN"})
		}
		if _, err := h.ShopRepo.GetByID(c.Request().Context(), *body.ShopID); err != nil {
			if errors.Is(err, repository.ErrShopNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	case "SUPER_ADMIN":
		if body.ShopID != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shop_id is not allowed for SUPER_ADMIN"})
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be SHOP_ADMIN or SUPER_ADMIN"})
	}
	id, err := h.UserRepo.Create(c.Request().Context(), body.Email, body.Password, body.Role, body.ShopID, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// offerBody is the request shape shared by offer create and update.
type offerBody struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DiscountPercent uint8  `json:"discount_percent"`
	IsActive        bool   `json:"is_active"`
	StartsOn        string `json:"starts_on"`
	EndsOn          string `json:"ends_on"`
}

func (b *offerBody) validate() string {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return "title is required"
	}
	if b.DiscountPercent > 100 {
		return "discount_percent must be between 0 and 100"
	}
	if !availability.ValidDate(b.StartsOn) || !availability.ValidDate(b.EndsOn) {
		return "starts_on and ends_on must be YYYY-MM-DD"
	}
	if b.EndsOn < b.StartsOn {
		return "ends_on must not precede starts_on"
	}
	return ""
}

// ListOffers handles GET /v1/super/shops/:id/offers.
func (h *SuperAdminHandler) ListOffers(c echo.Context) error {
	shopID, err := pathID(c, "id")
	if err != nil || shopID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop id"})
	}
	offers, err := h.OfferRepo.ListByShop(c.Request().Context(), shopID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": offers})
}

// CreateOffer handles POST /v1/super/shops/:id/offers.
func (h *SuperAdminHandler) CreateOffer(c echo.Context) error {
	shopID, err := pathID(c, "id")
	if err != nil || shopID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop id"})
	}
	if _, err := h.ShopRepo.GetByID(c.Request().Context(), shopID); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body offerBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	offer := &repository.Offer{
		ShopID:          shopID,
		Title:           body.Title,
		Description:     body.Description,
		DiscountPercent: body.DiscountPercent,
		IsActive:        body.IsActive,
		StartsOn:        body.StartsOn,
		EndsOn:          body.EndsOn,
	}
	if err := h.OfferRepo.Create(c.Request().Context(), offer); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create offer"})
	}
	return c.JSON(http.StatusCreated, offer)
}

// UpdateOffer handles PUT /v1/super/offers/:id.
func (h *SuperAdminHandler) UpdateOffer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offer id"})
	}
	var body offerBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	offer := &repository.Offer{
		ID:              id,
		Title:           body.Title,
		Description:     body.Description,
		DiscountPercent: body.DiscountPercent,
		IsActive:        body.IsActive,
		StartsOn:        body.StartsOn,
		EndsOn:          body.EndsOn,
	}
	if err := h.OfferRepo.Update(c.Request().Context(), offer); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "offer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update offer"})
	}
	return c.JSON(http.StatusOK, offer)
}

// DeleteOffer handles DELETE /v1/super/offers/:id.
func (h *SuperAdminHandler) DeleteOffer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offer id"})
	}
	if err := h.OfferRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "offer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete offer"})
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkUpdateAvailability handles PUT /v1/super/availability. It applies
// one hours config to every active shop and reports per-shop outcomes;
// a failure on one shop never aborts the rest.
func (h *SuperAdminHandler) BulkUpdateAvailability(c echo.Context) error {
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
	ids, err := h.ShopRepo.ListActiveIDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	updated := 0
	failed := make([]uint64, 0)
	for _, shopID := range ids {
		if err := h.AvailabilityRepo.UpsertConfig(ctx, shopID, cfg); err != nil {
			h.Log.Error().Err(err).Uint64("shop_id", shopID).Msg("bulk availability update failed")
			failed = append(failed, shopID)
			continue
		}
		updated++
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated, "failed": failed})
}

// BulkAddHoliday handles POST /v1/super/holidays. It adds one holiday to
// every active shop; shops that already have the date are counted as
// skipped rather than treated as errors.
func (h *SuperAdminHandler) BulkAddHoliday(c echo.Context) error {
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
	ctx := c.Request().Context()
	ids, err := h.ShopRepo.ListActiveIDs(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	created, skipped := 0, 0
	failed := make([]uint64, 0)
	for _, shopID := range ids {
		ok, err := h.AvailabilityRepo.AddHolidayIfAbsent(ctx, shopID, body.Date, body.Name)
		if err != nil {
			h.Log.Error().Err(err).Uint64("shop_id", shopID).Msg("bulk holiday insert failed")
			failed = append(failed, shopID)
			continue
		}
		if ok {
			created++
		} else {
			skipped++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"created": created, "skipped": skipped, "failed": failed})
}

// analyticsRange extracts the optional ?from=&?to= date bounds shared by
// the analytics endpoints. Empty bounds mean an open interval.
func analyticsRange(c echo.Context) (string, string, bool) {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from != "" && !availability.ValidDate(from) {
		return "", "", false
	}
	if to != "" && !availability.ValidDate(to) {
		return "", "", false
	}
	return from, to, true
}

// AnalyticsSummary handles GET /v1/super/analytics/summary and returns
// per-shop order counts and revenue, cancelled orders excluded.
func (h *SuperAdminHandler) AnalyticsSummary(c echo.Context) error {
	from, to, ok := analyticsRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be YYYY-MM-DD"})
	}
	rows, err := h.AnalyticsRepo.SummaryByShop(c.Request().Context(), from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// AnalyticsDaily handles GET /v1/super/analytics/daily and returns
// platform-wide daily order volume.
func (h *SuperAdminHandler) AnalyticsDaily(c echo.Context) error {
	from, to, ok := analyticsRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be YYYY-MM-DD"})
	}
	rows, err := h.AnalyticsRepo.Daily(c.Request().Context(), from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}
