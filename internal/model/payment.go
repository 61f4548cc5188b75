package model

import "time"

// PaymentStatus enumerates the terminal states of a Payment.  PENDING
// exists only as a zero-ish default; records are persisted already in
// SUCCEEDED or FAILED state, so no PENDING payment is ever observable.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Payment is the financial-settlement record for an order.  Exactly
// one record is created per non-replayed payment invocation; idempotent
// replays return the prior response without creating another.
//
// Fields:
//  ID         – unique payment identifier (UUID).
//  OrderID    – order being settled.
//  SessionID  – session that owns the order.
//  Amount     – amount charged; always the order's TotalPrice.
//  Method     – payment method label (e.g. CARD, TOSS, KAKAO, NAVER).
//  Status     – SUCCEEDED or FAILED.
//  ReasonCode – failure reason; set only on FAILED.
//  CreatedAt  – creation timestamp.
type Payment struct {
	ID         string
	OrderID    string
	SessionID  string
	Amount     int
	Method     string
	Status     PaymentStatus
	ReasonCode string
	CreatedAt  time.Time
}
