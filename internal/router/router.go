package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/seonghoon-yang/ticket-reservation/internal/handler"
)

// RegisterRoutes wires the booking pipeline endpoints onto the Echo
// instance. limiter is the optional rate-limit middleware applied to
// the hold endpoint; pass nil to register without limiting (e.g. when
// Redis is unavailable).
//
// The pipeline is three client-visible stages: hold → order → payment.
// Each stage commits independently and exposes its own failure
// surface; nothing here is transactional end-to-end.
func RegisterRoutes(e *echo.Echo, hold *handler.HoldHandler, order *handler.OrderHandler, payment *handler.PaymentHandler, limiter echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// Atomic seat hold. All hold attempts serialize on a global
	// critical section, so this is the endpoint worth rate limiting.
	holds := v1.Group("/holds")
	if limiter != nil {
		holds.Use(limiter)
	}
	holds.POST("", hold.CreateHold)

	// Order creation from a live hold, detail read with lazy expiry,
	// the tax-deduction phone update and the external cancel path.
	v1.POST("/orders", order.CreateOrder)
	v1.GET("/orders/:id", order.GetOrder)
	v1.PATCH("/orders/:id/tax", order.UpdateTaxPhone)
	v1.POST("/orders/:id/cancel", order.CancelOrder)

	// Payment processing with idempotency and failure injection.
	v1.POST("/payments", payment.CreatePayment)
}
