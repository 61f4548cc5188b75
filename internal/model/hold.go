package model

import "time"

// HoldStatus enumerates the lifecycle states of a Hold.  A hold is
// created ACTIVE and becomes EXPIRED either by timeout (detected
// lazily on access or by the sweeper) or when it is consumed by
// order creation.  FAILED is reserved; nothing in this core
// transitions a hold into it.
type HoldStatus string

const (
	HoldActive  HoldStatus = "ACTIVE"
	HoldExpired HoldStatus = "EXPIRED"
	HoldFailed  HoldStatus = "FAILED"
)

// Hold represents a temporary, exclusive claim on a set of seats for
// one session prior to purchase.  Holds prevent concurrent bookings
// from grabbing the same seats while a user is checking out and
// expire automatically five minutes after creation.
//
// Fields:
//  ID        – unique hold identifier (UUID).
//  SessionID – session that owns the claim.
//  GameID    – game for which the seats are claimed.
//  SeatIDs   – seats covered by the claim; immutable after creation.
//  Status    – lifecycle state (ACTIVE, EXPIRED, FAILED).
//  ExpiresAt – when the hold expires.
//  CreatedAt – when the hold was created.
type Hold struct {
	ID        string
	SessionID string
	GameID    string
	SeatIDs   []string
	Status    HoldStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the hold's deadline has passed at the given
// instant.  Expiry is a data-driven condition: nothing sweeps holds
// eagerly unless the optional worker is running.
func (h *Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.IsZero() && now.After(h.ExpiresAt)
}
