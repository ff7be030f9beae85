package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/handler"
	"github.com/dineinbox/shop-ordering/internal/middleware"
)

// RegisterSuperAdmin registers the platform console endpoints under
// /v1/super.  All routes require a valid JWT with the SUPER_ADMIN role.
func RegisterSuperAdmin(e *echo.Echo, h *handler.SuperAdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/super",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("SUPER_ADMIN"),
	)

	// ---- Shops ----
	g.GET("/shops", h.ListShops)
	g.POST("/shops", h.CreateShop)
	g.PUT("/shops/:id", h.UpdateShop)
	g.PATCH("/shops/:id/active", h.SetShopActive)

	// ---- Users ----
	g.POST("/users", h.CreateUser)

	// ---- Offers ----
	g.GET("/shops/:id/offers", h.ListOffers)
	g.POST("/shops/:id/offers", h.CreateOffer)
	g.PUT("/offers/:id", h.UpdateOffer)
	g.DELETE("/offers/:id", h.DeleteOffer)

	// ---- Bulk availability operations ----
	g.PUT("/availability", h.BulkUpdateAvailability)
	g.POST("/holidays", h.BulkAddHoliday)

	// ---- Analytics ----
	g.GET("/analytics/summary", h.AnalyticsSummary)
	g.GET("/analytics/daily", h.AnalyticsDaily)
}
