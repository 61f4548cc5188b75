// Package worker runs the optional background expiry sweep. Request
// handling only evaluates expiry lazily; deployments that want
// expired holds and orders released proactively run this asynq-based
// sweeper on top of the same Redis instance used elsewhere.
package worker

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"github.com/seonghoon-yang/ticket-reservation/internal/service"
)

// TypeExpirySweep identifies the periodic sweep task.
const TypeExpirySweep = "expiry:sweep"

// Sweeper transitions expired holds and orders and releases their
// seats, via the same service methods lazy expiry uses.
type Sweeper struct {
	holds  *service.HoldService
	orders *service.OrderService
}

// NewSweeper constructs a Sweeper over the given services.
func NewSweeper(holds *service.HoldService, orders *service.OrderService) *Sweeper {
	return &Sweeper{holds: holds, orders: orders}
}

// HandleExpirySweep processes one sweep task.
func (s *Sweeper) HandleExpirySweep(ctx context.Context, _ *asynq.Task) error {
	sweptHolds, err := s.holds.SweepExpired(ctx)
	if err != nil {
		return err
	}
	sweptOrders, err := s.orders.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if sweptHolds+sweptOrders > 0 {
		log.Printf("sweeper: expired %d holds, %d orders", sweptHolds, sweptOrders)
	}
	return nil
}

// Start runs the asynq server and a scheduler that enqueues a sweep
// every minute. It blocks until the server stops; callers typically
// run it in a goroutine.
func Start(redisOpt asynq.RedisClientOpt, sw *Sweeper) error {
	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 2})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpirySweep, sw.HandleExpirySweep)

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register("*/1 * * * *", asynq.NewTask(TypeExpirySweep, nil)); err != nil {
		return err
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("sweeper: scheduler stopped: %v", err)
		}
	}()

	return srv.Run(mux)
}
