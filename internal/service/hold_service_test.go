package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
)

func TestHoldConcurrentContention(t *testing.T) {
	fx := newFixture(t)
	seats := []string{"A-1", "A-2", "A-3"}

	const n = 10
	var wg sync.WaitGroup
	results := make([]HoldResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := fx.holds.Hold(t.Context(), HoldRequest{
				SessionID: fmt.Sprintf("sess-%d", i),
				GameID:    "game-1",
				SeatIDs:   seats,
			}, uuid.NewString())
			if err != nil {
				t.Errorf("hold %d: %v", i, err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	var wins, fails int
	for _, res := range results {
		switch res.Status {
		case StatusSuccess:
			wins++
		case StatusFail:
			fails++
			if res.Reason != ReasonHeldByOthers {
				t.Fatalf("loser reason = %s, want HELD_BY_OTHERS", res.Reason)
			}
			if res.ConflictSeatID == "" {
				t.Fatalf("loser must report the contested seat")
			}
		}
	}
	if wins != 1 || fails != n-1 {
		t.Fatalf("wins=%d fails=%d, want 1/%d", wins, fails, n-1)
	}
}

func TestHoldSecondActiveHoldRejected(t *testing.T) {
	fx := newFixture(t)
	fx.holdSeats(t, "sess-1", "A-1")

	res, err := fx.holds.Hold(t.Context(), HoldRequest{
		SessionID: "sess-1",
		GameID:    "game-1",
		SeatIDs:   []string{"B-1"},
	}, uuid.NewString())
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if res.Status != StatusFail || res.Reason != ReasonAlreadyHasActiveHold {
		t.Fatalf("got %s/%s, want FAIL/ALREADY_HAS_ACTIVE_HOLD", res.Status, res.Reason)
	}
	// The rejected attempt must not touch the requested seats.
	if !fx.seatFree(t, "B-1") {
		t.Fatalf("B-1 must stay free after a rejected hold")
	}
}

func TestHoldIdempotentReplay(t *testing.T) {
	fx := newFixture(t)
	key := uuid.NewString()
	req := HoldRequest{SessionID: "sess-1", GameID: "game-1", SeatIDs: []string{"A-1", "A-2"}}

	first, err := fx.holds.Hold(t.Context(), req, key)
	if err != nil || first.Status != StatusSuccess {
		t.Fatalf("first: %+v, %v", first, err)
	}
	// Same key replays the stored response without re-executing; the
	// active-hold rule would reject a genuine second attempt.
	second, err := fx.holds.Hold(t.Context(), req, key)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if second.HoldID != first.HoldID || second.Status != StatusSuccess {
		t.Fatalf("replay = %+v, want the original %+v", second, first)
	}
}

func TestHoldExpiredSelfClean(t *testing.T) {
	fx := newFixture(t)
	old := fx.holdSeats(t, "sess-1", "A-1", "A-2")

	fx.clock.Advance(6 * time.Minute)

	// The leftover expired hold is cleaned inline and the new hold wins.
	res := fx.holdSeats(t, "sess-1", "B-1")
	if res.HoldID == old.HoldID {
		t.Fatalf("expected a fresh hold")
	}
	if !fx.seatFree(t, "A-1") || !fx.seatFree(t, "A-2") {
		t.Fatalf("expired hold's seats must be released")
	}
	got, err := fx.holdStore.Get(t.Context(), old.HoldID)
	if err != nil {
		t.Fatalf("get old hold: %v", err)
	}
	if got.Status != model.HoldExpired {
		t.Fatalf("old hold status = %s, want EXPIRED", got.Status)
	}
}

func TestConsumeInvalidAndExpired(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.holds.Consume(t.Context(), "missing"); !errors.Is(err, ErrInvalidHold) {
		t.Fatalf("missing hold: %v, want ErrInvalidHold", err)
	}

	res := fx.holdSeats(t, "sess-1", "A-1")
	fx.clock.Advance(6 * time.Minute)
	if _, err := fx.holds.Consume(t.Context(), res.HoldID); !errors.Is(err, ErrHoldExpired) {
		t.Fatalf("expired hold: %v, want ErrHoldExpired", err)
	}
	if !fx.seatFree(t, "A-1") {
		t.Fatalf("expired consume must release the seats")
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	fx := newFixture(t)
	res := fx.holdSeats(t, "sess-1", "A-1")

	if _, err := fx.holds.Consume(t.Context(), res.HoldID); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if _, err := fx.holds.Consume(t.Context(), res.HoldID); !errors.Is(err, ErrInvalidHold) {
		t.Fatalf("second consume: %v, want ErrInvalidHold", err)
	}
	// Consumption hands the seats to the order, it does not free them.
	if fx.seatFree(t, "A-1") {
		t.Fatalf("consumed hold's seats must stay claimed")
	}
	// The session may start a new hold cycle for other seats.
	fx.holdSeats(t, "sess-1", "B-1")
}

func TestSweepExpiredHolds(t *testing.T) {
	fx := newFixture(t)
	fx.holdSeats(t, "sess-1", "A-1")
	fx.holdSeats(t, "sess-2", "A-2")

	fx.clock.Advance(6 * time.Minute)
	n, err := fx.holds.SweepExpired(t.Context())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("swept %d holds, want 2", n)
	}
	if !fx.seatFree(t, "A-1") || !fx.seatFree(t, "A-2") {
		t.Fatalf("swept seats must be free")
	}
}
