package repository

import (
	"context"
	"sync"
)

// SeatLedger is the authoritative occupancy map for all seats: seat ID
// to the session currently claiming it (absent = free). A seat is
// occupied by at most one session at a time; claims pass through hold
// acquisition, survive order creation until payment resolves, and are
// released on expiry or cancellation.
//
// Implementations must make AcquireAll all-or-nothing: either every
// requested seat is claimed for the session, or none are and the first
// conflicting seat is reported with ErrSeatConflict.
type SeatLedger interface {
	// AcquireAll claims every seat for sessionID, or claims nothing and
	// returns the first conflicting seat ID together with ErrSeatConflict.
	AcquireAll(ctx context.Context, seatIDs []string, sessionID string) (string, error)
	// ReleaseAll frees the given seats. Releasing a free seat is a no-op.
	ReleaseAll(ctx context.Context, seatIDs []string) error
	// Occupant returns the session occupying a seat, if any.
	Occupant(ctx context.Context, seatID string) (string, bool, error)
}

// MemorySeatLedger is the default single-process SeatLedger backed by a
// mutex-guarded map. The scan-then-claim in AcquireAll happens under
// one lock acquisition, so two overlapping requests serialize and
// exactly one can win.
type MemorySeatLedger struct {
	mu        sync.RWMutex
	occupants map[string]string // seatID -> sessionID
}

// NewMemorySeatLedger returns an empty in-memory ledger.
func NewMemorySeatLedger() *MemorySeatLedger {
	return &MemorySeatLedger{occupants: make(map[string]string)}
}

// AcquireAll implements SeatLedger. The availability check and the
// claim run inside the same critical section; on any conflict the map
// is left untouched.
func (l *MemorySeatLedger) AcquireAll(_ context.Context, seatIDs []string, sessionID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range seatIDs {
		if _, taken := l.occupants[id]; taken {
			return id, ErrSeatConflict
		}
	}
	for _, id := range seatIDs {
		l.occupants[id] = sessionID
	}
	return "", nil
}

// ReleaseAll implements SeatLedger.
func (l *MemorySeatLedger) ReleaseAll(_ context.Context, seatIDs []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range seatIDs {
		delete(l.occupants, id)
	}
	return nil
}

// Occupant implements SeatLedger.
func (l *MemorySeatLedger) Occupant(_ context.Context, seatID string) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.occupants[seatID]
	return s, ok, nil
}
