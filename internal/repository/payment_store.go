package repository

import (
	"context"
	"sync"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
)

// PaymentStore persists Payment records. Payments are terminal on
// creation (SUCCEEDED or FAILED) and never updated afterwards.
type PaymentStore interface {
	Create(ctx context.Context, p model.Payment) error
	Get(ctx context.Context, paymentID string) (model.Payment, error)
	// ListByOrder returns every payment recorded against an order, in
	// creation order.
	ListByOrder(ctx context.Context, orderID string) ([]model.Payment, error)
}

// MemoryPaymentStore is the default in-memory PaymentStore.
type MemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]model.Payment
	byOrder  map[string][]string // orderID -> paymentIDs in creation order
}

// NewMemoryPaymentStore returns an empty in-memory payment store.
func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{
		payments: make(map[string]model.Payment),
		byOrder:  make(map[string][]string),
	}
}

// Create implements PaymentStore.
func (s *MemoryPaymentStore) Create(_ context.Context, p model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
	s.byOrder[p.OrderID] = append(s.byOrder[p.OrderID], p.ID)
	return nil
}

// Get implements PaymentStore.
func (s *MemoryPaymentStore) Get(_ context.Context, paymentID string) (model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

// ListByOrder implements PaymentStore.
func (s *MemoryPaymentStore) ListByOrder(_ context.Context, orderID string) ([]model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byOrder[orderID]
	out := make([]model.Payment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.payments[id])
	}
	return out, nil
}
