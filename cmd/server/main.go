package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hyunsol/choir-seating-map/internal/cache"
	"github.com/hyunsol/choir-seating-map/internal/config"
	"github.com/hyunsol/choir-seating-map/internal/database"
	"github.com/hyunsol/choir-seating-map/internal/handler"
	"github.com/hyunsol/choir-seating-map/internal/middleware"
	"github.com/hyunsol/choir-seating-map/internal/queue"
	"github.com/hyunsol/choir-seating-map/internal/repository"
	"github.com/hyunsol/choir-seating-map/internal/router"
	"github.com/hyunsol/choir-seating-map/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis backs the local snapshot slots and the rate limiter. A nil
	// client degrades both instead of stopping the server.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: local snapshots and rate limiting disabled")
	}

	sessions := session.NewStore()
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	snapshots := repository.NewSnapshotRepo(db)
	localCache := cache.NewSnapshotCache(rdb)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	seatingHandler := handler.NewSeatingHandler(sessions)
	dataHandler := handler.NewDataHandler(sessions, snapshots, localCache)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterSeating(e, seatingHandler, cfg.JWTSecret)
	router.RegisterData(e, dataHandler, cfg.JWTSecret)

	// The snapshot consumer logs saved snapshots in the background and
	// reconnects on its own; it never stops the server.
	go func() {
		if err := queue.StartSnapshotConsumer(); err != nil {
			log.Printf("snapshot consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
