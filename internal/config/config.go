// Package config reads boxd settings from the environment. A .env file in
// the working directory is loaded first if present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	HTTPPort        string
	StoreBackend    string
	KeyPrefix       string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	BoxTTL          time.Duration
	SQLitePath      string
	MongoURI        string
	MongoDBName     string
	KafkaBrokers    []string
	EventsTopic     string
	EngineCacheSize int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string

	MaxRequestBodySize int64
}

// Load reads the configuration. Invalid numbers and durations are errors;
// missing keys take their defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env file")
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendRedis)),
		KeyPrefix:     getEnv("KEY_PREFIX", "jazzy"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "boxes.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "boxdb"),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),
		EventsTopic:   getEnv("EVENTS_TOPIC", "box-events"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.EngineCacheSize, err = getInt("ENGINE_CACHE_SIZE", 10000); err != nil {
		return nil, err
	}
	maxBody, err := getInt("MAX_REQUEST_BODY_SIZE", 1<<20) // 1MB
	if err != nil {
		return nil, err
	}
	if maxBody <= 0 {
		return nil, fmt.Errorf("invalid MAX_REQUEST_BODY_SIZE: must be positive")
	}
	cfg.MaxRequestBodySize = int64(maxBody)
	if cfg.BoxTTL, err = getDuration("BOX_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case BackendRedis, BackendSQLite, BackendMongo, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
