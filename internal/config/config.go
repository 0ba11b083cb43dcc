package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string
	// Mutating requests per client per minute, 0 disables limiting
	RateLimitRPM int

	// Backend selection
	DataBackend string
	SQLiteDSN   string

	// Notifications
	NotificationTTL time.Duration

	// Due-date monitor
	DueCheckInterval time.Duration
	DueWindowDays    int
	DueMonitorDedup  bool

	// AMQP, disabled when the URL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Azure Queue Storage, disabled when the URL is empty
	AzureQueueURL     string
	AzureQueueName    string
	AzureQueueAccount string
	AzureQueueKey     string

	// Logging
	LogLevel string

	// Cash flow opening balance in cents
	CashFlowSeed int64
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		RateLimitRPM: getEnvInt("RATE_LIMIT_RPM", 120),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
		SQLiteDSN:   getEnv("SQLITE_DSN", "file:meudinheiro?mode=memory&cache=shared"),

		NotificationTTL: getEnvDuration("NOTIFICATION_TTL", 5*time.Second),

		DueCheckInterval: getEnvDuration("DUE_CHECK_INTERVAL", time.Minute),
		DueWindowDays:    getEnvInt("DUE_WINDOW_DAYS", 3),
		DueMonitorDedup:  getEnvBool("DUE_MONITOR_DEDUP", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "meudinheiro"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "notifications"),

		AzureQueueURL:     getEnv("AZURE_QUEUE_URL", ""),
		AzureQueueName:    getEnv("AZURE_QUEUE_NAME", "notifications"),
		AzureQueueAccount: getEnv("AZURE_QUEUE_ACCOUNT", ""),
		AzureQueueKey:     getEnv("AZURE_QUEUE_KEY", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		CashFlowSeed: getEnvInt64("CASHFLOW_SEED", 0),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitRPM < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitRPM))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Session data is never written to disk
	if c.DataBackend == "sqlite" {
		if c.SQLiteDSN == "" {
			errors = append(errors, "SQLite DSN cannot be empty when using sqlite backend")
		} else if !strings.Contains(c.SQLiteDSN, "mode=memory") || !strings.Contains(c.SQLiteDSN, "cache=shared") {
			errors = append(errors, fmt.Sprintf("invalid SQLite DSN '%s': must be an in-memory shared-cache DSN (mode=memory&cache=shared)", c.SQLiteDSN))
		}
	}

	if c.NotificationTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid notification TTL %v: must be positive", c.NotificationTTL))
	}

	if c.DueCheckInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid due check interval %v: must be at least 1 second", c.DueCheckInterval))
	} else if c.DueCheckInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid due check interval %v: must be at most 24 hours", c.DueCheckInterval))
	}

	if c.DueWindowDays < 0 || c.DueWindowDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid due window %d: must be between 0 and 365 days", c.DueWindowDays))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.AzureQueueURL != "" {
		if parsedURL, err := url.Parse(c.AzureQueueURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Azure queue URL '%s': %v", c.AzureQueueURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid Azure queue URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		} else if parsedURL.Scheme == "http" && (c.AzureQueueAccount == "" || c.AzureQueueKey == "") {
			errors = append(errors, "Azure queue account and key are required for http endpoints")
		}
		if c.AzureQueueName == "" {
			errors = append(errors, "Azure queue name cannot be empty when Azure queue URL is provided")
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.CashFlowSeed < 0 {
		errors = append(errors, fmt.Sprintf("invalid cash flow seed %d: must not be negative", c.CashFlowSeed))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
