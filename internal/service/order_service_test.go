package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
)

func TestOrderCreatePricesAtCreation(t *testing.T) {
	fx := newFixture(t)
	res := fx.orderFromSeats(t, "sess-1", "A-1", "A-2")

	order, err := fx.orders.Get(t.Context(), res.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if want := repository.DefaultSeatPrice * 2; order.TotalPrice != want {
		t.Fatalf("total = %d, want %d", order.TotalPrice, want)
	}
	if order.Status != model.OrderActive {
		t.Fatalf("status = %s, want ACTIVE", order.Status)
	}
}

func TestOrderCreateFromExpiredHold(t *testing.T) {
	fx := newFixture(t)
	hold := fx.holdSeats(t, "sess-1", "A-1")

	fx.clock.Advance(6 * time.Minute)
	res, err := fx.orders.Create(t.Context(), hold.HoldID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Status != OrderStatusHoldExpired {
		t.Fatalf("status = %s, want HOLD_EXPIRED", res.Status)
	}
	if !fx.seatFree(t, "A-1") {
		t.Fatalf("seats of an expired hold must be released")
	}
}

func TestOrderCreateFromConsumedHold(t *testing.T) {
	fx := newFixture(t)
	hold := fx.holdSeats(t, "sess-1", "A-1")
	if _, err := fx.orders.Create(t.Context(), hold.HoldID); err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := fx.orders.Create(t.Context(), hold.HoldID)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if res.Status != OrderStatusInvalidHold {
		t.Fatalf("status = %s, want INVALID_HOLD", res.Status)
	}
}

func TestOrderKeepsSeatsThroughPaymentWindow(t *testing.T) {
	fx := newFixture(t)
	fx.orderFromSeats(t, "sess-1", "A-1", "A-2")

	// Another session cannot re-hold seats that are mid-purchase.
	res, err := fx.holds.Hold(t.Context(), HoldRequest{
		SessionID: "sess-2",
		GameID:    "game-1",
		SeatIDs:   []string{"A-1"},
	}, uuid.NewString())
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if res.Status != StatusFail || res.Reason != ReasonHeldByOthers {
		t.Fatalf("got %s/%s, want FAIL/HELD_BY_OTHERS", res.Status, res.Reason)
	}
}

func TestOrderLazyExpiry(t *testing.T) {
	fx := newFixture(t)
	res := fx.orderFromSeats(t, "sess-1", "A-1")

	fx.clock.Advance(6 * time.Minute)
	order, err := fx.orders.Get(t.Context(), res.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.Status != model.OrderExpired {
		t.Fatalf("status = %s, want EXPIRED", order.Status)
	}
	if !fx.seatFree(t, "A-1") {
		t.Fatalf("expired order's seats must be released")
	}
}

func TestOrderCancel(t *testing.T) {
	fx := newFixture(t)
	res := fx.orderFromSeats(t, "sess-1", "A-1")

	order, err := fx.orders.Cancel(t.Context(), res.OrderID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if order.Status != model.OrderCancelled {
		t.Fatalf("status = %s, want CANCELLED", order.Status)
	}
	if !fx.seatFree(t, "A-1") {
		t.Fatalf("cancelled order's seats must be released")
	}
	if _, err := fx.orders.Cancel(t.Context(), res.OrderID); !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("second cancel: %v, want ErrOrderNotCancellable", err)
	}
}

func TestOrderDetailWithCatalogAndMaskedPhone(t *testing.T) {
	fx := newFixture(t)
	res := fx.orderFromSeats(t, "sess-1", "A-1")

	masked, err := fx.orders.UpdateTaxPhone(t.Context(), res.OrderID, "01012345678")
	if err != nil {
		t.Fatalf("tax phone: %v", err)
	}
	if masked != "010-****-5678" {
		t.Fatalf("masked = %q", masked)
	}

	detail, err := fx.orders.Detail(t.Context(), res.OrderID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.MaskedPhone != masked {
		t.Fatalf("detail phone = %q, want %q", detail.MaskedPhone, masked)
	}
	if detail.GameTitle != "KT vs LG" || detail.Venue != "잠실 야구장" {
		t.Fatalf("catalog decoration missing: %+v", detail)
	}
}

func TestOrderGetUnknown(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.orders.Get(t.Context(), "missing"); !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("got %v, want ErrOrderNotFound", err)
	}
}
