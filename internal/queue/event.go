// Package queue defines the audit event payload exchanged over the
// message broker and the background consumer that turns it into the
// append-only decision log.
package queue

// AuditResult carries the outcome of the audited operation: OK or
// FAIL, with a reason code mirroring the booking error taxonomy on
// failure.
type AuditResult struct {
	Status     string `json:"status"`
	ReasonCode string `json:"reasonCode,omitempty"`
}

// AuditEvent is emitted for every meaningful state transition in the
// booking pipeline (hold requested/succeeded/failed, order created,
// payment submitted/succeeded/failed, ...). Events are fire-and-forget:
// the pipeline never blocks or fails on audit delivery.
type AuditEvent struct {
	TS        string         `json:"ts"`
	SessionID string         `json:"sessionId"`
	EventType string         `json:"eventType"`
	Actor     string         `json:"actor"`
	RequestID string         `json:"requestId"`
	Payload   map[string]any `json:"payload,omitempty"`
	Result    AuditResult    `json:"result"`
}
