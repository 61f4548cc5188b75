// Package repository defines the store abstractions behind the booking
// core together with their default in-memory, thread-safe
// implementations. Sentinel errors declared here let the service layer
// distinguish failure scenarios without inspecting error strings; for
// example ErrSeatConflict marks a failed all-or-nothing acquisition
// while ErrOrderNotFound marks a lookup miss on the order store.
package repository

import "errors"

// ErrSeatConflict is returned by SeatLedger.AcquireAll when at least
// one requested seat is already occupied. No partial claim is left
// behind; the conflicting seat ID accompanies the error.
var ErrSeatConflict = errors.New("seat conflict")

// ErrHoldNotFound is returned when a hold ID does not resolve to a
// stored hold record.
var ErrHoldNotFound = errors.New("hold not found")

// ErrOrderNotFound is returned when an order ID does not resolve to a
// stored order record.
var ErrOrderNotFound = errors.New("order not found")

// ErrPaymentNotFound is returned when a payment ID does not resolve
// to a stored payment record.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrGameNotFound is returned by catalog implementations when a game
// ID has no catalog entry. Callers fall back to default pricing.
var ErrGameNotFound = errors.New("game not found")
