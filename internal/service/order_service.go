package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
	"github.com/seonghoon-yang/ticket-reservation/internal/utils"
)

// Order outcome statuses returned to clients.
const (
	OrderStatusActive      = "ACTIVE"
	OrderStatusInvalidHold = "INVALID_HOLD"
	OrderStatusHoldExpired = "HOLD_EXPIRED"
)

// OrderResult is the outcome of an order-creation attempt.
type OrderResult struct {
	OrderID string `json:"orderId,omitempty"`
	HoldID  string `json:"holdId"`
	Status  string `json:"status"`
}

// OrderDetail is the full order view returned by detail reads,
// decorated with catalog game info when available.
type OrderDetail struct {
	OrderID     string    `json:"orderId"`
	GameID      string    `json:"gameId"`
	Status      string    `json:"status"`
	SeatIDs     []string  `json:"seatIds"`
	TotalPrice  int       `json:"totalPrice"`
	MaskedPhone string    `json:"maskedPhone,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
	GameTitle   string    `json:"gameTitle,omitempty"`
	GameDate    string    `json:"gameDate,omitempty"`
	Venue       string    `json:"venue,omitempty"`
}

// ErrOrderNotCancellable is returned by Cancel when the order is not
// in ACTIVE status.
var ErrOrderNotCancellable = errors.New("order not cancellable")

// ErrOrderNotPayable is returned by MarkPaid when the order is not in
// ACTIVE status.
var ErrOrderNotPayable = errors.New("order not payable")

// OrderService converts live holds into priced, time-boxed orders.
// Consumption goes through HoldService so hold ownership passes inside
// the hold critical section; order-record mutations are serialized by
// the service's own mutex.
//
// An order keeps its seats claimed in the ledger for the whole payment
// window: a different session cannot re-hold seats that are mid-
// purchase. The claim is released when the order expires or is
// cancelled, and kept when it is paid.
type OrderService struct {
	mu      sync.Mutex
	orders  repository.OrderStore
	holds   *HoldService
	ledger  repository.SeatLedger
	catalog repository.Catalog
	audit   AuditSink
	window  time.Duration
	now     func() time.Time
}

// NewOrderService constructs an OrderService. window is the payment
// window; zero falls back to five minutes.
func NewOrderService(orders repository.OrderStore, holds *HoldService, ledger repository.SeatLedger, catalog repository.Catalog, audit AuditSink, window time.Duration) *OrderService {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if audit == nil {
		audit = NopSink{}
	}
	return &OrderService{
		orders:  orders,
		holds:   holds,
		ledger:  ledger,
		catalog: catalog,
		audit:   audit,
		window:  window,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create consumes the hold and creates an ACTIVE order with a fresh
// payment window. The total price is the catalog per-seat price times
// the seat count, fixed at creation time.
func (s *OrderService) Create(ctx context.Context, holdID string) (OrderResult, error) {
	hold, err := s.holds.Consume(ctx, holdID)
	if errors.Is(err, ErrInvalidHold) {
		return OrderResult{HoldID: holdID, Status: OrderStatusInvalidHold}, nil
	}
	if errors.Is(err, ErrHoldExpired) {
		return OrderResult{HoldID: holdID, Status: OrderStatusHoldExpired}, nil
	}
	if err != nil {
		return OrderResult{}, err
	}

	price, perr := s.catalog.SeatPrice(ctx, hold.GameID)
	if errors.Is(perr, repository.ErrGameNotFound) {
		price = repository.DefaultSeatPrice
	} else if perr != nil {
		return OrderResult{}, perr
	}

	now := s.now()
	order := model.Order{
		ID:         uuid.NewString(),
		HoldID:     hold.ID,
		SessionID:  hold.SessionID,
		GameID:     hold.GameID,
		SeatIDs:    append([]string(nil), hold.SeatIDs...),
		TotalPrice: price * len(hold.SeatIDs),
		Status:     model.OrderActive,
		ExpiresAt:  now.Add(s.window),
		CreatedAt:  now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return OrderResult{}, err
	}

	s.audit.Emit(newEvent(order.SessionID, EventOrderCreated, map[string]any{
		"orderId":    order.ID,
		"holdId":     hold.ID,
		"totalPrice": order.TotalPrice,
	}, auditOK, ""))

	return OrderResult{OrderID: order.ID, HoldID: hold.ID, Status: OrderStatusActive}, nil
}

// Get returns the order, expiring it lazily when the payment window
// has closed. Returns repository.ErrOrderNotFound for unknown IDs.
func (s *OrderService) Get(ctx context.Context, orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Status == model.OrderActive && order.PaymentExpired(s.now()) {
		if err := s.expireLocked(ctx, &order); err != nil {
			return model.Order{}, err
		}
	}
	return order, nil
}

// Detail returns the order decorated with catalog game info.
func (s *OrderService) Detail(ctx context.Context, orderID string) (OrderDetail, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	detail := OrderDetail{
		OrderID:     order.ID,
		GameID:      order.GameID,
		Status:      string(order.Status),
		SeatIDs:     order.SeatIDs,
		TotalPrice:  order.TotalPrice,
		MaskedPhone: order.MaskedPhone,
		ExpiresAt:   order.ExpiresAt,
		CreatedAt:   order.CreatedAt,
	}
	if game, gerr := s.catalog.Game(ctx, order.GameID); gerr == nil {
		detail.GameTitle = game.Title
		detail.GameDate = game.StartsAt
		detail.Venue = game.Venue
	}
	return detail, nil
}

// UpdateTaxPhone stores a masked copy of the tax-deduction phone on
// the order and returns the masked value. The raw phone is never
// persisted.
func (s *OrderService) UpdateTaxPhone(ctx context.Context, orderID, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	masked := utils.MaskPhone(phone)
	order.MaskedPhone = masked
	if err := s.orders.Update(ctx, order); err != nil {
		return "", err
	}
	s.audit.Emit(newEvent(order.SessionID, EventTaxPhoneUpdated, map[string]any{
		"orderId":     orderID,
		"maskedPhone": masked,
	}, auditOK, ""))
	return masked, nil
}

// Cancel is the external cancellation path reserved by the order state
// machine. Only ACTIVE orders can be cancelled; cancellation releases
// the order's seats back to the contention pool.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Status != model.OrderActive {
		return model.Order{}, ErrOrderNotCancellable
	}
	order.Status = model.OrderCancelled
	if err := s.orders.Update(ctx, order); err != nil {
		return model.Order{}, err
	}
	if err := s.ledger.ReleaseAll(ctx, order.SeatIDs); err != nil {
		return model.Order{}, err
	}
	s.audit.Emit(newEvent(order.SessionID, EventOrderCancelled, map[string]any{
		"orderId": orderID,
	}, auditOK, ""))
	return order, nil
}

// MarkPaid transitions an ACTIVE order to PAID. The seats stay
// occupied in the ledger: they are sold. Returns ErrOrderNotPayable
// when the order is not ACTIVE, which also covers the race where two
// payment attempts pass the already-paid check together — only the
// first one gets the transition.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Status != model.OrderActive {
		return model.Order{}, ErrOrderNotPayable
	}
	order.Status = model.OrderPaid
	if err := s.orders.Update(ctx, order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// Expire transitions an ACTIVE order past its deadline to EXPIRED and
// releases its seats. It is called by the payment processor on expired
// payment attempts and by the sweeper; expiring an order that is not
// ACTIVE or not past its deadline is a no-op.
func (s *OrderService) Expire(ctx context.Context, orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Status == model.OrderActive && order.PaymentExpired(s.now()) {
		if err := s.expireLocked(ctx, &order); err != nil {
			return model.Order{}, err
		}
	}
	return order, nil
}

// SweepExpired transitions every ACTIVE order past its payment window
// to EXPIRED, releasing seats. It reports how many orders were swept.
func (s *OrderService) SweepExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired, err := s.orders.ExpiredActive(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for i := range expired {
		if err := s.expireLocked(ctx, &expired[i]); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}

// expireLocked marks the order EXPIRED and releases its seats. Caller
// must hold s.mu; the order is mutated in place.
func (s *OrderService) expireLocked(ctx context.Context, order *model.Order) error {
	order.Status = model.OrderExpired
	if err := s.orders.Update(ctx, *order); err != nil {
		return err
	}
	if err := s.ledger.ReleaseAll(ctx, order.SeatIDs); err != nil {
		return err
	}
	s.audit.Emit(newEvent(order.SessionID, EventOrderExpired, map[string]any{
		"orderId": order.ID,
	}, auditOK, ""))
	return nil
}
