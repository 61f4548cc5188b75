package repository

import (
	"context"
	"sync"
	"time"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
)

// OrderStore persists Order records. Like HoldStore it hands out
// copies and applies mutations through Update.
type OrderStore interface {
	Create(ctx context.Context, o model.Order) error
	Get(ctx context.Context, orderID string) (model.Order, error)
	Update(ctx context.Context, o model.Order) error
	// ExpiredActive lists ACTIVE orders whose payment window has
	// closed; used by the optional expiry sweeper.
	ExpiredActive(ctx context.Context, now time.Time) ([]model.Order, error)
}

// MemoryOrderStore is the default in-memory OrderStore.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]model.Order
}

// NewMemoryOrderStore returns an empty in-memory order store.
func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]model.Order)}
}

func copyOrder(o model.Order) model.Order {
	o.SeatIDs = append([]string(nil), o.SeatIDs...)
	return o
}

// Create implements OrderStore.
func (s *MemoryOrderStore) Create(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
	return nil
}

// Get implements OrderStore.
func (s *MemoryOrderStore) Get(_ context.Context, orderID string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return model.Order{}, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

// Update implements OrderStore.
func (s *MemoryOrderStore) Update(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return ErrOrderNotFound
	}
	s.orders[o.ID] = copyOrder(o)
	return nil
}

// ExpiredActive implements OrderStore.
func (s *MemoryOrderStore) ExpiredActive(_ context.Context, now time.Time) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.Status == model.OrderActive && now.After(o.ExpiresAt) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}
