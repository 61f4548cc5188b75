package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
	"github.com/seonghoon-yang/ticket-reservation/internal/service"
)

// OrderHandler exposes order creation, detail reads, the tax-phone
// update and the external cancellation path.
type OrderHandler struct {
	Orders *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	if orders == nil {
		panic("nil order service passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders}
}

// CreateOrder handles POST /v1/orders. It converts a live hold into a
// priced order with a fresh payment window. INVALID_HOLD and
// HOLD_EXPIRED outcomes map to 400.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var body struct {
		HoldID string `json:"holdId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HoldID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "holdId is required"})
	}

	res, err := h.Orders.Create(c.Request().Context(), body.HoldID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}
	if res.Status != service.OrderStatusActive {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusOK, res)
}

// GetOrder handles GET /v1/orders/:id. Expiry is applied lazily on
// read, so a stale ACTIVE order comes back EXPIRED here.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	detail, err := h.Orders.Detail(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order lookup failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateTaxPhone handles PATCH /v1/orders/:id/tax. Only the masked
// form of the phone is stored and echoed back.
func (h *OrderHandler) UpdateTaxPhone(c echo.Context) error {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}

	masked, err := h.Orders.UpdateTaxPhone(c.Request().Context(), c.Param("id"), body.Phone)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"maskedPhone": masked})
}

// CancelOrder handles POST /v1/orders/:id/cancel. Only ACTIVE orders
// can be cancelled; anything else is a 409.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	order, err := h.Orders.Cancel(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if errors.Is(err, service.ErrOrderNotCancellable) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order not cancellable"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orderId": order.ID, "status": string(order.Status)})
}
