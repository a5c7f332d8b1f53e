package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/config"
	"github.com/lookaround/property-booking/internal/database"
	"github.com/lookaround/property-booking/internal/handler"
	"github.com/lookaround/property-booking/internal/ical"
	"github.com/lookaround/property-booking/internal/middleware"
	"github.com/lookaround/property-booking/internal/queue"
	"github.com/lookaround/property-booking/internal/repository"
	"github.com/lookaround/property-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	blocks := repository.NewBlockRepo(db)
	feeds := repository.NewFeedRepo(db)

	sync := ical.NewSyncService(feeds, bookings,
		time.Duration(cfg.FetchTimeoutSec)*time.Second, cfg.SyncIntervalMin)
	sync.Start()
	defer sync.Stop()

	// Background consumer writing booking.confirmed events to
	// logs/booking.log.  Runs its own reconnect loop.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	// Redis-backed middlewares degrade to pass-through when the client
	// is nil, so a missing Redis never blocks startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: response cache and rate limiting disabled")
	}
	e.Use(middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb))
	// Cache is wired per route group, not globally: it has to run after
	// the JWT middleware so entries are partitioned by user.
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	owner := handler.NewOwnerHandler(properties, rooms, bookings, blocks, feeds, sync)

	router.RegisterPublic(e, owner, cache)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterOwner(e, owner, cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
