package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playpool/cuetouch/internal/api"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/database"
	"github.com/playpool/cuetouch/internal/game"
	"github.com/playpool/cuetouch/internal/migrations"
	"github.com/playpool/cuetouch/internal/redis"
	"github.com/playpool/cuetouch/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.InputTuningFile != "" {
		if err := cfg.LoadInputTuning(cfg.InputTuningFile); err != nil {
			log.Fatalf("Failed to load input tuning: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shot log is optional
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		if os.Getenv("MIGRATE_ON_START") == "true" {
			log.Println("Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		conn, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()
		db = conn
		log.Println("[DB] Shot recording enabled")
	} else {
		log.Println("[DB] DATABASE_URL not set; shots will not be recorded")
	}

	// Snapshots and event fan-out are optional
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		rdb = client
	} else {
		log.Println("[REDIS] REDIS_URL not set; snapshots and cross-instance events disabled")
	}

	tables := game.NewTableManager(db, rdb, cfg)
	hub := ws.NewHub(tables, rdb, cfg)
	go hub.Run(ctx)

	if err := hub.StartEventSubscriber(ctx); err != nil {
		log.Fatalf("Failed to subscribe to table events: %v", err)
	}
	tables.StartSnapshotWorker(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(ctx, router, tables, hub, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		<-ctx.Done()
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting cuetouch server on port %s (input binding: %s)", port, cfg.InputBinding)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}

	tables.Close()
}
