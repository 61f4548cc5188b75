package repository

import (
	"context"
	"sync"
	"time"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
)

// HoldStore persists Hold records and the per-session active-hold
// index. Implementations return copies; mutations are applied through
// Update so a durable backend can be swapped in without touching the
// manager logic.
type HoldStore interface {
	Create(ctx context.Context, h model.Hold) error
	Get(ctx context.Context, holdID string) (model.Hold, error)
	Update(ctx context.Context, h model.Hold) error
	// ActiveHoldID returns the hold currently registered as the
	// session's single active hold, if any.
	ActiveHoldID(ctx context.Context, sessionID string) (string, bool, error)
	SetActiveHold(ctx context.Context, sessionID, holdID string) error
	ClearActiveHold(ctx context.Context, sessionID string) error
	// ExpiredActive lists ACTIVE holds whose deadline has passed; used
	// by the optional expiry sweeper.
	ExpiredActive(ctx context.Context, now time.Time) ([]model.Hold, error)
}

// MemoryHoldStore is the default in-memory HoldStore.
type MemoryHoldStore struct {
	mu     sync.RWMutex
	holds  map[string]model.Hold // holdID -> hold
	active map[string]string     // sessionID -> holdID
}

// NewMemoryHoldStore returns an empty in-memory hold store.
func NewMemoryHoldStore() *MemoryHoldStore {
	return &MemoryHoldStore{
		holds:  make(map[string]model.Hold),
		active: make(map[string]string),
	}
}

func copyHold(h model.Hold) model.Hold {
	h.SeatIDs = append([]string(nil), h.SeatIDs...)
	return h
}

// Create implements HoldStore.
func (s *MemoryHoldStore) Create(_ context.Context, h model.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[h.ID] = copyHold(h)
	return nil
}

// Get implements HoldStore.
func (s *MemoryHoldStore) Get(_ context.Context, holdID string) (model.Hold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holds[holdID]
	if !ok {
		return model.Hold{}, ErrHoldNotFound
	}
	return copyHold(h), nil
}

// Update implements HoldStore.
func (s *MemoryHoldStore) Update(_ context.Context, h model.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holds[h.ID]; !ok {
		return ErrHoldNotFound
	}
	s.holds[h.ID] = copyHold(h)
	return nil
}

// ActiveHoldID implements HoldStore.
func (s *MemoryHoldStore) ActiveHoldID(_ context.Context, sessionID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[sessionID]
	return id, ok, nil
}

// SetActiveHold implements HoldStore.
func (s *MemoryHoldStore) SetActiveHold(_ context.Context, sessionID, holdID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[sessionID] = holdID
	return nil
}

// ClearActiveHold implements HoldStore.
func (s *MemoryHoldStore) ClearActiveHold(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
	return nil
}

// ExpiredActive implements HoldStore.
func (s *MemoryHoldStore) ExpiredActive(_ context.Context, now time.Time) ([]model.Hold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Hold
	for _, h := range s.holds {
		if h.Status == model.HoldActive && now.After(h.ExpiresAt) {
			out = append(out, copyHold(h))
		}
	}
	return out, nil
}
