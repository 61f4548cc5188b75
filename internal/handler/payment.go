package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seonghoon-yang/ticket-reservation/internal/service"
)

// PaymentHandler exposes payment processing. Like holds, payments
// require an Idempotency-Key header; the optional X-Payment-Fail-Rate
// header injects failures for resilience testing.
type PaymentHandler struct {
	Payments *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	if payments == nil {
		panic("nil payment service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments}
}

// CreatePayment handles POST /v1/payments. Returns 200 on SUCCEEDED
// and 409 on every FAILED/EXPIRED outcome; a missing idempotency key
// is a 400.
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var body struct {
		OrderID string `json:"orderId"`
		Method  string `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	key := strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
	if key == "" {
		return c.JSON(http.StatusBadRequest, service.PaymentResult{
			OrderID:    body.OrderID,
			Status:     service.PayStatusFailed,
			ReasonCode: service.ReasonMissingIdempotencyKey,
		})
	}
	if body.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "orderId is required"})
	}

	failRate := c.Request().Header.Get("X-Payment-Fail-Rate")

	res, err := h.Payments.Pay(c.Request().Context(), body.OrderID, body.Method, key, failRate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	if res.Status == service.PayStatusSucceeded {
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(http.StatusConflict, res)
}
