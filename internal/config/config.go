package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Journal backends
const (
	JournalNone   = "none"
	JournalSQLite = "sqlite"
	JournalAMQP   = "amqp"
)

var validJournals = []string{JournalNone, JournalSQLite, JournalAMQP}

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Accounts
	AgencyCode      string
	WithdrawalLimit decimal.Decimal
	MaxWithdrawals  int

	// Journal selection
	JournalBackend string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Metrics
	MetricsAddr string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AgencyCode:      getEnv("AGENCY_CODE", core.DefaultAgency),
		WithdrawalLimit: getEnvDecimal("WITHDRAWAL_LIMIT", decimal.NewFromInt(core.DefaultWithdrawalLimit)),
		MaxWithdrawals:  getEnvInt("MAX_WITHDRAWALS", core.DefaultMaxWithdrawals),

		JournalBackend: getEnv("JOURNAL_BACKEND", JournalNone),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ledger.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "posted_transactions"),

		MetricsAddr: getEnv("METRICS_ADDR", ""),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	return cfg
}

// AccountOptions returns the core options every new checking account is opened with.
func (c *Config) AccountOptions() []core.Option {
	return []core.Option{
		core.WithAgency(c.AgencyCode),
		core.WithLimit(core.NewMoney(c.WithdrawalLimit)),
		core.WithMaxWithdrawals(c.MaxWithdrawals),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if strings.TrimSpace(c.AgencyCode) == "" {
		errors = append(errors, "agency code cannot be empty")
	}

	// Checked after rounding to cents, since that is the limit accounts get.
	if core.NewMoney(c.WithdrawalLimit).Validate() != nil {
		errors = append(errors, fmt.Sprintf("invalid withdrawal limit %s: must be at least 0.01", c.WithdrawalLimit))
	}

	if c.MaxWithdrawals < 1 {
		errors = append(errors, fmt.Sprintf("invalid max withdrawals %d: must be at least 1", c.MaxWithdrawals))
	}

	if !slices.Contains(validJournals, c.JournalBackend) {
		errors = append(errors, fmt.Sprintf("invalid journal backend '%s': must be one of %v", c.JournalBackend, validJournals))
	}

	if c.JournalBackend == JournalSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite journal")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.JournalBackend == JournalAMQP && c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required when using amqp journal")
	}

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

	if c.MetricsAddr != "" {
		if _, port, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid metrics address '%s': %v", c.MetricsAddr, err))
		} else if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
			errors = append(errors, fmt.Sprintf("invalid metrics port '%s': must be between 1 and 65535", port))
		}
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ".")); err == nil {
			return d
		}
	}
	return defaultValue
}
