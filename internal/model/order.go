package model

import "time"

// OrderStatus enumerates the lifecycle states of an Order.  Orders
// start ACTIVE and end in exactly one of PAID (payment success),
// EXPIRED (payment window passed) or CANCELLED (external
// cancellation path).
type OrderStatus string

const (
	OrderActive    OrderStatus = "ACTIVE"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderExpired   OrderStatus = "EXPIRED"
)

// Order is a priced, time-boxed purchase intent created from a
// consumed Hold.  The payment window is fixed at five minutes from
// creation.  The Payment Processor may move Status to PAID but does
// not otherwise mutate the record.
//
// Fields:
//  ID          – unique order identifier (UUID).
//  HoldID      – hold this order was created from.
//  SessionID   – session that owns the order.
//  GameID      – game being purchased.
//  SeatIDs     – seats being purchased, copied from the hold.
//  TotalPrice  – total price fixed at creation time.
//  MaskedPhone – masked tax-deduction phone, set via a separate call.
//  Status      – lifecycle state.
//  ExpiresAt   – payment-window deadline.
//  CreatedAt   – creation timestamp.
type Order struct {
	ID          string
	HoldID      string
	SessionID   string
	GameID      string
	SeatIDs     []string
	TotalPrice  int
	MaskedPhone string
	Status      OrderStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// PaymentExpired reports whether the payment window has closed at the
// given instant.
func (o *Order) PaymentExpired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && now.After(o.ExpiresAt)
}
