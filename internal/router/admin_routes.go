package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/handler"
	"github.com/dineinbox/shop-ordering/internal/middleware"
)

// RegisterAdmin registers SHOP_ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT with the SHOP_ADMIN role; the shop each
// request operates on comes from the token's shop claim, so no shop id
// ever appears in these paths.
func RegisterAdmin(e *echo.Echo, m *handler.AdminMenuHandler, o *handler.AdminOrderHandler, s *handler.AdminSettingsHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("SHOP_ADMIN"),
	)

	// ---- Shop profile ----
	g.GET("/shop", s.GetShop)
	g.PUT("/shop", s.UpdateShop)

	// ---- Menu sections ----
	g.GET("/menu/sections", m.ListSections)
	g.POST("/menu/sections", m.CreateSection)
	g.PUT("/menu/sections/:id", m.UpdateSection)
	g.DELETE("/menu/sections/:id", m.DeleteSection)

	// ---- Menu items ----
	g.GET("/menu/items", m.ListItems)
	g.POST("/menu/items", m.CreateItem)
	g.PUT("/menu/items/:id", m.UpdateItem)
	g.PATCH("/menu/items/:id/availability", m.SetAvailability) // quick out-of-stock toggle
	g.DELETE("/menu/items/:id", m.DeleteItem)

	// ---- Orders ----
	g.GET("/orders", o.List)
	g.GET("/orders/:id", o.Get)
	g.PATCH("/orders/:id/status", o.UpdateStatus)

	// ---- Delivery pricing ----
	g.GET("/delivery-tiers", s.ListDeliveryTiers)
	g.POST("/delivery-tiers", s.CreateDeliveryTier)
	g.DELETE("/delivery-tiers/:id", s.DeleteDeliveryTier)

	// ---- Hours, overrides and holidays ----
	g.GET("/availability", s.GetAvailability)
	g.PUT("/availability", s.UpdateAvailability)
	g.GET("/holidays", s.ListHolidays)
	g.POST("/holidays", s.AddHoliday)
	g.DELETE("/holidays/:id", s.DeleteHoliday)
}
