package service

import (
	"time"

	"github.com/google/uuid"

	q "github.com/seonghoon-yang/ticket-reservation/internal/queue"
)

// Audit event types emitted by the booking pipeline.
const (
	EventHoldRequested   = "HOLD_REQUESTED"
	EventHoldSucceeded   = "HOLD_SUCCEEDED"
	EventHoldFailed      = "HOLD_FAILED"
	EventHoldExpired     = "HOLD_EXPIRED"
	EventOrderCreated    = "ORDER_CREATED"
	EventOrderExpired    = "ORDER_EXPIRED"
	EventOrderCancelled  = "ORDER_CANCELLED"
	EventTaxPhoneUpdated = "TAX_DEDUCTION_PHONE_UPDATED"
	EventPaySubmitted    = "PAYMENT_SUBMITTED"
	EventPaySucceeded    = "PAYMENT_SUCCEEDED"
	EventPayFailed       = "PAYMENT_FAILED"
)

// Audit result statuses.
const (
	auditOK   = "OK"
	auditFail = "FAIL"
)

// newEvent builds an audit event with a fresh request ID and the
// current UTC timestamp.
func newEvent(sessionID, eventType string, payload map[string]any, status, reasonCode string) q.AuditEvent {
	return q.AuditEvent{
		TS:        time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: sessionID,
		EventType: eventType,
		Actor:     "USER",
		RequestID: uuid.NewString(),
		Payload:   payload,
		Result:    q.AuditResult{Status: status, ReasonCode: reasonCode},
	}
}
