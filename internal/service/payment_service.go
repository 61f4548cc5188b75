package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
)

// Payment outcome statuses returned to clients.
const (
	PayStatusSucceeded = "SUCCEEDED"
	PayStatusFailed    = "FAILED"
	PayStatusExpired   = "EXPIRED"
)

// Payment failure reason codes.
const (
	ReasonOrderNotFound        = "ORDER_NOT_FOUND"
	ReasonPaymentWindowExpired = "PAYMENT_WINDOW_EXPIRED"
	ReasonAlreadyPaid          = "ALREADY_PAID"
	ReasonOrderCancelled       = "ORDER_CANCELLED"
	ReasonPaymentFailed        = "PAYMENT_FAILED"
)

// PaymentResult is the outcome of a payment attempt. ReasonCode is set
// on every non-SUCCEEDED status.
type PaymentResult struct {
	PaymentID  string `json:"paymentId,omitempty"`
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	ReasonCode string `json:"reasonCode,omitempty"`
}

// FailureDecider decides whether a payment attempt should fail, given
// the resolved failure rate in [0, 1]. The default rolls a uniform
// random number; tests inject deterministic deciders.
type FailureDecider func(rate float64) bool

// PaymentService finalizes an order's purchase: idempotent, expiry
// enforcing, with pluggable failure injection standing in for a real
// payment gateway. Exactly one Payment record is created per
// non-replayed invocation, already in its terminal state.
type PaymentService struct {
	payments repository.PaymentStore
	orders   *OrderService
	replay   repository.ReplayCache
	audit    AuditSink
	security SecurityVerifier

	// FallbackFailRate applies when no per-request override is
	// supplied; it comes from environment configuration.
	FallbackFailRate float64

	decide FailureDecider
}

// NewPaymentService constructs a PaymentService with the default
// random failure decider.
func NewPaymentService(payments repository.PaymentStore, orders *OrderService, replay repository.ReplayCache, audit AuditSink, security SecurityVerifier, fallbackFailRate float64) *PaymentService {
	if audit == nil {
		audit = NopSink{}
	}
	return &PaymentService{
		payments:         payments,
		orders:           orders,
		replay:           replay,
		audit:            audit,
		security:         security,
		FallbackFailRate: fallbackFailRate,
		decide: func(rate float64) bool {
			return rate > 0 && rand.Float64() < rate
		},
	}
}

// SetDecider replaces the failure decision function. Intended for
// tests and alternative gateway simulations.
func (s *PaymentService) SetDecider(d FailureDecider) { s.decide = d }

// Pay processes a payment for the order. When an idempotency key is
// supplied the attempt runs at most once per key; replays return the
// first response verbatim and never create another Payment record.
// failRateOverride is the raw per-request failure-rate hint; malformed
// or empty values fall back to the configured rate, then to zero.
func (s *PaymentService) Pay(ctx context.Context, orderID, method, idempotencyKey, failRateOverride string) (PaymentResult, error) {
	if idempotencyKey == "" {
		return s.payOnce(ctx, orderID, method, failRateOverride)
	}
	body, _, err := s.replay.Do(ctx, "payment:"+idempotencyKey, func() ([]byte, error) {
		res, perr := s.payOnce(ctx, orderID, method, failRateOverride)
		if perr != nil {
			return nil, perr
		}
		return json.Marshal(res)
	})
	if err != nil {
		return PaymentResult{}, err
	}
	var res PaymentResult
	if err := json.Unmarshal(body, &res); err != nil {
		return PaymentResult{}, err
	}
	return res, nil
}

func (s *PaymentService) payOnce(ctx context.Context, orderID, method, failRateOverride string) (PaymentResult, error) {
	// Order lookup; Get also applies lazy expiry, releasing the seats
	// of an order whose window closed between requests.
	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return PaymentResult{OrderID: orderID, Status: PayStatusFailed, ReasonCode: ReasonOrderNotFound}, nil
	}
	if err != nil {
		return PaymentResult{}, err
	}

	s.audit.Emit(newEvent(order.SessionID, EventPaySubmitted, map[string]any{
		"orderId": orderID,
		"method":  method,
	}, auditOK, ""))

	// Expiry gate: the window closed, whether we just detected it or a
	// previous access already did.
	if order.Status == model.OrderExpired {
		s.audit.Emit(newEvent(order.SessionID, EventPayFailed, map[string]any{
			"orderId": orderID,
			"reason":  ReasonPaymentWindowExpired,
		}, auditFail, ReasonPaymentWindowExpired))
		return PaymentResult{OrderID: orderID, Status: PayStatusExpired, ReasonCode: ReasonPaymentWindowExpired}, nil
	}

	if order.Status == model.OrderPaid {
		return PaymentResult{OrderID: orderID, Status: PayStatusFailed, ReasonCode: ReasonAlreadyPaid}, nil
	}
	if order.Status == model.OrderCancelled {
		return PaymentResult{OrderID: orderID, Status: PayStatusFailed, ReasonCode: ReasonOrderCancelled}, nil
	}

	// Failure injection. The order stays ACTIVE so the client can
	// retry with a new idempotency key inside the payment window.
	if s.decide(s.resolveFailRate(failRateOverride)) {
		failed := model.Payment{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			SessionID:  order.SessionID,
			Amount:     order.TotalPrice,
			Method:     method,
			Status:     model.PaymentFailed,
			ReasonCode: ReasonPaymentFailed,
			CreatedAt:  s.orders.now(),
		}
		if err := s.payments.Create(ctx, failed); err != nil {
			return PaymentResult{}, err
		}
		s.audit.Emit(newEvent(order.SessionID, EventPayFailed, map[string]any{
			"orderId":   orderID,
			"paymentId": failed.ID,
			"reason":    ReasonPaymentFailed,
		}, auditFail, ReasonPaymentFailed))
		return PaymentResult{PaymentID: failed.ID, OrderID: orderID, Status: PayStatusFailed, ReasonCode: ReasonPaymentFailed}, nil
	}

	// Success: flip the order to PAID first so a concurrent attempt
	// cannot also settle it, then record the payment.
	order, err = s.orders.MarkPaid(ctx, orderID)
	if errors.Is(err, ErrOrderNotPayable) {
		return PaymentResult{OrderID: orderID, Status: PayStatusFailed, ReasonCode: ReasonAlreadyPaid}, nil
	}
	if err != nil {
		return PaymentResult{}, err
	}

	payment := model.Payment{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		SessionID: order.SessionID,
		Amount:    order.TotalPrice, // priced at order creation, never recomputed
		Method:    method,
		Status:    model.PaymentSucceeded,
		CreatedAt: s.orders.now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return PaymentResult{}, err
	}

	s.audit.Emit(newEvent(order.SessionID, EventPaySucceeded, map[string]any{
		"orderId":   orderID,
		"paymentId": payment.ID,
		"amount":    order.TotalPrice,
		"method":    method,
	}, auditOK, ""))

	// A completed purchase invalidates the session's verification so
	// the next booking cycle requires a fresh challenge. A reset
	// failure must not undo a settled payment.
	if s.security != nil {
		_ = s.security.ResetVerification(ctx, order.SessionID)
	}

	return PaymentResult{PaymentID: payment.ID, OrderID: orderID, Status: PayStatusSucceeded}, nil
}

// resolveFailRate picks the effective failure rate: a well-formed
// per-request override wins, otherwise the configured fallback,
// otherwise zero. Values outside [0, 1] are clamped.
func (s *PaymentService) resolveFailRate(override string) float64 {
	rate := s.FallbackFailRate
	if override != "" {
		if v, err := strconv.ParseFloat(override, 64); err == nil {
			rate = v
		}
	}
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
