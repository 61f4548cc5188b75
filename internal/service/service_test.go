package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
)

// testClock is a manually advanced clock injected into the services so
// expiry behavior is deterministic.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	clock     *testClock
	ledger    *repository.MemorySeatLedger
	holdStore *repository.MemoryHoldStore
	payments  *repository.MemoryPaymentStore
	security  *MemorySecurity
	holds     *HoldService
	orders    *OrderService
	pay       *PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newTestClock()
	ledger := repository.NewMemorySeatLedger()
	holdStore := repository.NewMemoryHoldStore()
	catalog := repository.NewStaticCatalog(model.Game{
		ID:        "game-1",
		Title:     "KT vs LG",
		StartsAt:  "2026.03.28 14:00",
		Venue:     "잠실 야구장",
		SeatPrice: repository.DefaultSeatPrice,
	})

	holds := NewHoldService(ledger, holdStore, repository.NewMemoryReplayCache(), NopSink{}, 5*time.Minute)
	holds.now = clock.Now
	orders := NewOrderService(repository.NewMemoryOrderStore(), holds, ledger, catalog, NopSink{}, 5*time.Minute)
	orders.now = clock.Now
	payments := repository.NewMemoryPaymentStore()
	security := NewMemorySecurity()
	pay := NewPaymentService(payments, orders, repository.NewMemoryReplayCache(), NopSink{}, security, 0)
	pay.SetDecider(func(float64) bool { return false })

	return &fixture{
		clock:     clock,
		ledger:    ledger,
		holdStore: holdStore,
		payments:  payments,
		security:  security,
		holds:     holds,
		orders:    orders,
		pay:       pay,
	}
}

// holdSeats places a hold for the session with a fresh idempotency key
// and fails the test unless it succeeds.
func (f *fixture) holdSeats(t *testing.T, sessionID string, seatIDs ...string) HoldResult {
	t.Helper()
	res, err := f.holds.Hold(t.Context(), HoldRequest{
		SessionID: sessionID,
		GameID:    "game-1",
		SeatIDs:   seatIDs,
	}, uuid.NewString())
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Fatalf("hold status = %s (%s), want SUCCESS", res.Status, res.Reason)
	}
	return res
}

// orderFromSeats walks a session through hold and order creation.
func (f *fixture) orderFromSeats(t *testing.T, sessionID string, seatIDs ...string) OrderResult {
	t.Helper()
	hold := f.holdSeats(t, sessionID, seatIDs...)
	res, err := f.orders.Create(t.Context(), hold.HoldID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if res.Status != OrderStatusActive {
		t.Fatalf("order status = %s, want ACTIVE", res.Status)
	}
	return res
}

func (f *fixture) seatFree(t *testing.T, seatID string) bool {
	t.Helper()
	_, taken, err := f.ledger.Occupant(t.Context(), seatID)
	if err != nil {
		t.Fatalf("occupant: %v", err)
	}
	return !taken
}
