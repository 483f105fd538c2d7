package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPAddr             string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	ShutdownTimeout      time.Duration

	StoreDriver       string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	LogLevel  string
	LogFormat string

	NATSURL      string
	OTelEndpoint string

	// Write limiting is off unless RateLimitWrites > 0.
	RedisURL        string
	RateLimitWrites int
	RateLimitWindow time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		ShutdownTimeout:      getenvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		StoreDriver:       strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:       getenv("DATABASE_URL", ""),
		DBMaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getenvDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		NATSURL:      getenv("NATS_URL", ""),
		OTelEndpoint: getenv("OTEL_EXPORTER_ENDPOINT", ""),

		RedisURL:        getenv("REDIS_URL", ""),
		RateLimitWrites: getenvInt("RATE_LIMIT_WRITES", 0),
		RateLimitWindow: getenvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("missing env: DATABASE_URL")
		}
	case StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
