package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in context helpers
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// ctxUint extracts a numeric claim stored in echo.Context by the JWT
// middleware and converts it to uint64. Claims decoded from JSON arrive as
// float64; tokens from other issuers may carry strings.
func ctxUint(c echo.Context, key string) (uint64, error) {
	v := c.Get(key)
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid " + key + " in context")
}

// getUserID extracts the authenticated user's id from the context.
func getUserID(c echo.Context) (uint64, error) { return ctxUint(c, "user_id") }

// getShopID extracts the shop a SHOP_ADMIN token is scoped to. The claim
// is the only source of shop identity for admin routes; path or body shop
// ids are never trusted.
func getShopID(c echo.Context) (uint64, error) { return ctxUint(c, "shop_id") }

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
