package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/wordjourney/internal/logger"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	EventWorkerCount  int
	EventQueueSize    int
	RecordWorkerCount int
	RecordQueueSize   int
	AMQPURL           string
	AMQPQueue         string
	SuccessDelay      time.Duration
	RevealDelay       time.Duration
	AcknowledgeDelay  time.Duration
	IdleTimeout       time.Duration
	SecureCookies     bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:wordjourney.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		EventWorkerCount:  envIntOr("EVENT_WORKER_COUNT", 2),
		EventQueueSize:    envIntOr("EVENT_QUEUE_SIZE", 256),
		RecordWorkerCount: envIntOr("RECORD_WORKER_COUNT", 1),
		RecordQueueSize:   envIntOr("RECORD_QUEUE_SIZE", 64),
		AMQPURL:           envOr("AMQP_URL", ""),
		AMQPQueue:         envOr("AMQP_QUEUE", "wordjourney.events"),
		SuccessDelay:      envDurationOr("SUCCESS_DELAY", 2*time.Second),
		RevealDelay:       envDurationOr("REVEAL_DELAY", 3*time.Second),
		AcknowledgeDelay:  envDurationOr("ACKNOWLEDGE_DELAY", time.Second),
		IdleTimeout:       envDurationOr("JOURNEY_IDLE_TIMEOUT", 30*time.Minute),
		SecureCookies:     envBoolOr("SECURE_COOKIES", false),
	}
}

// Validate reports every problem at once rather than the first one found.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Addr) == "" {
		add("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		add("DB_PATH cannot be empty")
	}
	if !logger.ValidLevel(c.LogLevel) {
		add("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel)
	}
	if c.EventWorkerCount < 1 {
		add("EVENT_WORKER_COUNT must be at least 1 (got %d)", c.EventWorkerCount)
	}
	if c.EventQueueSize < 1 {
		add("EVENT_QUEUE_SIZE must be at least 1 (got %d)", c.EventQueueSize)
	}
	if c.RecordWorkerCount < 1 {
		add("RECORD_WORKER_COUNT must be at least 1 (got %d)", c.RecordWorkerCount)
	}
	if c.RecordQueueSize < 1 {
		add("RECORD_QUEUE_SIZE must be at least 1 (got %d)", c.RecordQueueSize)
	}
	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") || u.Host == "" {
			add("AMQP_URL must be an amqp:// or amqps:// URL")
		}
		if strings.TrimSpace(c.AMQPQueue) == "" {
			add("AMQP_QUEUE cannot be empty when AMQP_URL is set")
		}
	}
	if c.SuccessDelay < 0 {
		add("SUCCESS_DELAY cannot be negative")
	}
	if c.RevealDelay < 0 {
		add("REVEAL_DELAY cannot be negative")
	}
	if c.AcknowledgeDelay < 0 {
		add("ACKNOWLEDGE_DELAY cannot be negative")
	}
	if c.IdleTimeout < 0 {
		add("JOURNEY_IDLE_TIMEOUT cannot be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid duration for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
