package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/repository"
)

// AdminOrderHandler serves the order dashboard endpoints for shop admins:
// listing incoming orders, inspecting one, and walking it through the
// fulfilment pipeline.
type AdminOrderHandler struct {
	OrderRepo *repository.OrderRepo
}

// NewAdminOrderHandler constructs an AdminOrderHandler.
func NewAdminOrderHandler(orders *repository.OrderRepo) *AdminOrderHandler {
	if orders == nil {
		panic("nil repository passed to NewAdminOrderHandler")
	}
	return &AdminOrderHandler{OrderRepo: orders}
}

// List handles GET /v1/admin/orders. Optional ?status= and ?date= filters
// narrow the result; ?limit= caps the page size.
func (h *AdminOrderHandler) List(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status := c.QueryParam("status")
	if status != "" && !repository.ValidOrderStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	date := c.QueryParam("date")
	if date != "" && !availability.ValidDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 200"})
		}
		limit = n
	}
	orders, err := h.OrderRepo.ListByShop(c.Request().Context(), shopID, status, date, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// Get handles GET /v1/admin/orders/:id and returns the order with its
// line items.
func (h *AdminOrderHandler) Get(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.OrderRepo.GetByIDAndShop(c.Request().Context(), id, shopID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": order})
}

// UpdateStatus handles PATCH /v1/admin/orders/:id/status. Transitions move
// the pipeline forward only; cancellation is allowed from any live state.
// A disallowed move returns 409 so the dashboard can refresh its view.
func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	shopID, err := getShopID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !repository.ValidOrderStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	if err := h.OrderRepo.UpdateStatus(c.Request().Context(), id, shopID, body.Status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		if errors.Is(err, repository.ErrBadTransition) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": body.Status})
}
