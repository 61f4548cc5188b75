package worker

import (
	"testing"
	"time"

	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
	"github.com/seonghoon-yang/ticket-reservation/internal/service"
)

func TestHandleExpirySweep(t *testing.T) {
	ctx := t.Context()
	ledger := repository.NewMemorySeatLedger()
	catalog := repository.NewStaticCatalog()

	// Nanosecond lifetimes so everything is already expired by the time
	// the sweep runs.
	holds := service.NewHoldService(ledger, repository.NewMemoryHoldStore(), repository.NewMemoryReplayCache(), service.NopSink{}, time.Nanosecond)
	orders := service.NewOrderService(repository.NewMemoryOrderStore(), holds, ledger, catalog, service.NopSink{}, 5*time.Minute)

	res, err := holds.Hold(ctx, service.HoldRequest{
		SessionID: "sess-1",
		GameID:    "game-1",
		SeatIDs:   []string{"A-1"},
	}, "")
	if err != nil || res.Status != service.StatusSuccess {
		t.Fatalf("hold: %+v, %v", res, err)
	}
	time.Sleep(2 * time.Millisecond)

	sw := NewSweeper(holds, orders)
	if err := sw.HandleExpirySweep(ctx, nil); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if _, taken, _ := ledger.Occupant(ctx, "A-1"); taken {
		t.Fatalf("swept hold's seat must be free")
	}
}
