package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/playpool/cuetouch/internal/config"
	"github.com/playpool/cuetouch/internal/migrations"
)

// Usage: migrate [up | down <steps> | version]
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil {
				log.Fatalf("Invalid step count %q", os.Args[2])
			}
			steps = n
		}
		if err := migrations.RollbackMigrations(cfg.DatabaseURL, steps); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
	case "version":
		v, dirty, err := migrations.CurrentVersion(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Version lookup failed: %v", err)
		}
		log.Printf("Schema version %d (dirty=%v)", v, dirty)
	default:
		log.Fatalf("Unknown command %q (want up, down or version)", cmd)
	}
}
