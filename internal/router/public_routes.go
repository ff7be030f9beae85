package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/handler"
)

// RegisterPublic registers the unauthenticated storefront endpoints.  The
// provided handlers return sanitized data only; no JWT or role middleware
// is applied.  The extra middlewares (typically the Redis response cache
// and the rate limiter) are applied to the browse endpoints so that
// storefront polling stays cheap, but never to checkout or order
// tracking: an order must always hit the live resolver and the live DB.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, o *handler.OrderHandler, browse ...echo.MiddlewareFunc) {
	// ---- Storefront browsing (cacheable) ----
	g := e.Group("/v1/shops/:slug", browse...)
	g.GET("", p.GetShop)
	// Status polling endpoint for the open/closed badge.
	g.GET("/status", p.GetStatus)
	g.GET("/menu", p.GetMenu)
	g.GET("/offers", p.GetOffers)

	// ---- Checkout and tracking (never cached) ----
	e.POST("/v1/shops/:slug/orders", o.Checkout)
	e.GET("/v1/orders/:token", o.Track)
}
