package main // Entry point package

import (
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/seonghoon-yang/ticket-reservation/internal/config"
	"github.com/seonghoon-yang/ticket-reservation/internal/database"
	"github.com/seonghoon-yang/ticket-reservation/internal/handler"
	"github.com/seonghoon-yang/ticket-reservation/internal/middleware"
	"github.com/seonghoon-yang/ticket-reservation/internal/model"
	"github.com/seonghoon-yang/ticket-reservation/internal/queue"
	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
	"github.com/seonghoon-yang/ticket-reservation/internal/router"
	"github.com/seonghoon-yang/ticket-reservation/internal/service"
	"github.com/seonghoon-yang/ticket-reservation/internal/worker"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs
	cfg := config.Load()

	// Stores: in-memory, thread-safe defaults. The store interfaces
	// are the seam for a durable backend later.
	ledger := repository.NewMemorySeatLedger()
	holdStore := repository.NewMemoryHoldStore()
	orderStore := repository.NewMemoryOrderStore()
	paymentStore := repository.NewMemoryPaymentStore()

	// Redis is optional: with it we get durable idempotency replay,
	// rate limiting and the periodic expiry sweeper; without it the
	// process-scoped replay cache covers the same contract.
	rdb := config.NewRedisClient()
	var holdReplay, payReplay repository.ReplayCache
	if rdb != nil {
		holdReplay = repository.NewRedisReplayCache(rdb, "replay:hold", 24*time.Hour)
		payReplay = repository.NewRedisReplayCache(rdb, "replay:payment", 24*time.Hour)
	} else {
		log.Printf("redis unavailable; using in-memory replay caches")
		holdReplay = repository.NewMemoryReplayCache()
		payReplay = repository.NewMemoryReplayCache()
	}

	// Catalog: MySQL when configured, static seed otherwise.
	var catalog repository.Catalog
	if cfg.CatalogEnabled() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Printf("catalog db unavailable (%v); using static catalog", err)
		} else {
			catalog = repository.NewMySQLCatalog(db)
		}
	}
	if catalog == nil {
		catalog = repository.NewStaticCatalog(model.Game{
			ID:        "game-1",
			Title:     "KT vs LG",
			StartsAt:  "2026.03.28 14:00",
			Venue:     "잠실 야구장",
			SeatPrice: repository.DefaultSeatPrice,
		})
	}

	// Audit sink: publish to RabbitMQ when a broker is configured and
	// let the consumer write the decision log; otherwise append to the
	// JSONL log directly.
	var audit service.AuditSink
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		audit = service.NewAMQPSink("")
		go func() {
			if err := queue.StartAuditConsumer(cfg.AuditLogPath); err != nil {
				log.Printf("audit consumer stopped: %v", err)
			}
		}()
	} else {
		audit = service.NewFileSink(cfg.AuditLogPath)
	}

	security := service.NewMemorySecurity()

	holdSvc := service.NewHoldService(ledger, holdStore, holdReplay, audit, cfg.HoldTTL)
	orderSvc := service.NewOrderService(orderStore, holdSvc, ledger, catalog, audit, cfg.PaymentWindow)
	paySvc := service.NewPaymentService(paymentStore, orderSvc, payReplay, audit, security, cfg.PaymentFailRate)

	// Optional proactive expiry sweep on top of the same Redis.
	if rdb != nil {
		redisOpt := asynq.RedisClientOpt{Addr: rdb.Options().Addr, Password: rdb.Options().Password, DB: rdb.Options().DB}
		go func() {
			if err := worker.Start(redisOpt, worker.NewSweeper(holdSvc, orderSvc)); err != nil {
				log.Printf("sweeper stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	var limiter echo.MiddlewareFunc
	if rdb != nil {
		limiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}
	router.RegisterRoutes(e,
		handler.NewHoldHandler(holdSvc),
		handler.NewOrderHandler(orderSvc),
		handler.NewPaymentHandler(paySvc),
		limiter,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
