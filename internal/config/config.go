package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (shot log). Empty disables recording.
	DatabaseURL string

	// Redis (snapshots and table events). Empty disables both.
	RedisURL string

	// Server
	Port        string
	FrontendURL string
	StaticDir   string

	// Tables
	FrameRate               int
	ReadyTimeoutSeconds     int
	SnapshotIntervalSeconds int
	SnapshotTTLMinutes      int

	// Touch input
	InputBinding          string // "touch" or "disabled"
	AimMode               string // "drag" or "cue_ball"
	AimRestart            string // "ignore" or "restart"
	DistanceToPowerFactor float64
	MinPower              float64
	MaxPower              float64
	InputTuningFile       string

	// Security
	JWTSecret          string
	TableTokenTTLHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:8000"),
		StaticDir:   getEnv("STATIC_DIR", ""),

		// Tables
		FrameRate:               getEnvInt("FRAME_RATE", 60),
		ReadyTimeoutSeconds:     getEnvInt("READY_TIMEOUT_SECONDS", 5),
		SnapshotIntervalSeconds: getEnvInt("SNAPSHOT_INTERVAL_SECONDS", 10),
		SnapshotTTLMinutes:      getEnvInt("SNAPSHOT_TTL_MINUTES", 60),

		// Touch input
		InputBinding:          getEnv("INPUT_BINDING", BindingTouch),
		AimMode:               getEnv("AIM_MODE", "drag"),
		AimRestart:            getEnv("AIM_RESTART", "ignore"),
		DistanceToPowerFactor: getEnvFloat("DISTANCE_TO_POWER_FACTOR", 20),
		MinPower:              getEnvFloat("MIN_POWER", 1),
		MaxPower:              getEnvFloat("MAX_POWER", 27),
		InputTuningFile:       getEnv("INPUT_TUNING_FILE", ""),

		// Security
		JWTSecret:          getEnv("JWT_SECRET", DefaultJWTSecret),
		TableTokenTTLHours: getEnvInt("TABLE_TOKEN_TTL_HOURS", 12),
	}

	return cfg
}

// DefaultJWTSecret signs table tokens when JWT_SECRET is unset. Validate refuses it
// in production.
const DefaultJWTSecret = "change-me-in-production"

// Validate reports settings the server must not start with.
func (c *Config) Validate() error {
	if c.Environment == "production" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// Binding owners for pointer events.
const (
	BindingTouch    = "touch"
	BindingDisabled = "disabled"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
