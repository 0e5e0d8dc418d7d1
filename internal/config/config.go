package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	LogLevel        string
	DBDriver        string
	DatabaseURL     string
	RedisAddr       string
	QueueBackend    string
	QueueKey        string
	RosterFile      string
	StartWeek       string
	CORSOrigins     []string
	RateLimitPerMin int
	ShutdownTimeout time.Duration
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBDriver:        driverEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL:     getEnv("DATABASE_URL", "./rollbook.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		QueueBackend:    getEnv("QUEUE_BACKEND", "memory"),
		QueueKey:        getEnv("QUEUE_KEY", "rollbook:attendance"),
		RosterFile:      getEnv("ROSTER_FILE", ""),
		StartWeek:       getEnv("START_WEEK", ""),
		CORSOrigins:     listEnv("CORS_ORIGINS", []string{"*"}),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Production reports whether the app runs with production settings.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func driverEnv(key, fallback string) string {
	val := getEnv(key, fallback)
	switch val {
	case "sqlite3", "pgx":
		return val
	case "sqlite":
		return "sqlite3"
	case "postgres", "postgresql":
		return "pgx"
	}
	log.Printf("invalid driver for %s: %q, using fallback %s", key, val, fallback)
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
