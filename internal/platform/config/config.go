package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DatabaseURL           string
	Environment           string
	DataEncryptionKey     string
	WorkflowURL           string
	WorkflowSecret        string
	WorkflowTimeout       time.Duration
	UpdateToken           string
	EmployeeWebhookURL    string
	EmployeeWebhookSecret string
	DefaultTimezone       string
	HolidayJurisdiction   string
	MaxBodyBytes          int64
	RateLimitPerMinute    int
	NodeID                int64
	RunMigrations         bool
	MetricsEnabled        bool
	LogFormat             string
}

// fileConfig mirrors the optional TOML overlay. Only keys present in the
// file override the environment.
type fileConfig struct {
	Server struct {
		Addr               *string `toml:"addr"`
		MaxBodyBytes       *int64  `toml:"max_body_bytes"`
		RateLimitPerMinute *int    `toml:"rate_limit_per_minute"`
		LogFormat          *string `toml:"log_format"`
	} `toml:"server"`
	Payroll struct {
		DefaultTimezone     *string `toml:"default_timezone"`
		HolidayJurisdiction *string `toml:"holiday_jurisdiction"`
		NodeID              *int64  `toml:"node_id"`
	} `toml:"payroll"`
	Workflow struct {
		URL     *string `toml:"url"`
		Timeout *string `toml:"timeout"`
	} `toml:"workflow"`
}

// Load reads .env (when present), the environment and the optional TOML file
// named by CONFIG_FILE, in that order of increasing precedence for the keys
// the file sets.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env load failed", "err", err)
	}

	cfg := Config{
		Addr:                  getEnv("APP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Environment:           getEnv("APP_ENV", "development"),
		DataEncryptionKey:     getEnv("DATA_ENCRYPTION_KEY", ""),
		WorkflowURL:           getEnv("WORKFLOW_URL", ""),
		WorkflowSecret:        getEnv("WORKFLOW_SECRET", ""),
		WorkflowTimeout:       getEnvDuration("WORKFLOW_TIMEOUT", 10*time.Second),
		UpdateToken:           getEnv("UPDATE_TOKEN", ""),
		EmployeeWebhookURL:    getEnv("EMPLOYEE_WEBHOOK_URL", ""),
		EmployeeWebhookSecret: getEnv("EMPLOYEE_WEBHOOK_SECRET", ""),
		DefaultTimezone:       getEnv("DEFAULT_TIMEZONE", "America/Toronto"),
		HolidayJurisdiction:   getEnv("HOLIDAY_JURISDICTION", "CA-ON"),
		MaxBodyBytes:          int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		NodeID:                int64(getEnvInt("NODE_ID", 1)),
		RunMigrations:         getEnvBool("RUN_MIGRATIONS", true),
		MetricsEnabled:        getEnvBool("METRICS_ENABLED", true),
		LogFormat:             getEnv("LOG_FORMAT", "text"),
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if fc.Server.Addr != nil {
		c.Addr = *fc.Server.Addr
	}
	if fc.Server.MaxBodyBytes != nil {
		c.MaxBodyBytes = *fc.Server.MaxBodyBytes
	}
	if fc.Server.RateLimitPerMinute != nil {
		c.RateLimitPerMinute = *fc.Server.RateLimitPerMinute
	}
	if fc.Server.LogFormat != nil {
		c.LogFormat = *fc.Server.LogFormat
	}
	if fc.Payroll.DefaultTimezone != nil {
		c.DefaultTimezone = *fc.Payroll.DefaultTimezone
	}
	if fc.Payroll.HolidayJurisdiction != nil {
		c.HolidayJurisdiction = *fc.Payroll.HolidayJurisdiction
	}
	if fc.Payroll.NodeID != nil {
		c.NodeID = *fc.Payroll.NodeID
	}
	if fc.Workflow.URL != nil {
		c.WorkflowURL = *fc.Workflow.URL
	}
	if fc.Workflow.Timeout != nil {
		parsed, err := time.ParseDuration(*fc.Workflow.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: workflow.timeout: %w", path, err)
		}
		c.WorkflowTimeout = parsed
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Production() bool {
	return c.Environment == "production"
}

// DispatchConfigured reports whether the external workflow endpoint is set.
func (c Config) DispatchConfigured() bool {
	return strings.TrimSpace(c.WorkflowURL) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DispatchConfigured() {
		if err := validateEndpoint(c.WorkflowURL); err != nil {
			return fmt.Errorf("WORKFLOW_URL: %w", err)
		}
	}
	if strings.TrimSpace(c.EmployeeWebhookURL) != "" {
		if err := validateEndpoint(c.EmployeeWebhookURL); err != nil {
			return fmt.Errorf("EMPLOYEE_WEBHOOK_URL: %w", err)
		}
	}
	if c.Production() {
		if !c.DispatchConfigured() {
			return fmt.Errorf("WORKFLOW_URL must be set in production")
		}
		if strings.TrimSpace(c.WorkflowSecret) == "" {
			return fmt.Errorf("WORKFLOW_SECRET must be set in production")
		}
		if strings.TrimSpace(c.UpdateToken) == "" {
			return fmt.Errorf("UPDATE_TOKEN must be set in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
	}
	if c.WorkflowTimeout <= 0 {
		return fmt.Errorf("WORKFLOW_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("NODE_ID must be between 0 and 1023")
	}
	return nil
}

func validateEndpoint(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
