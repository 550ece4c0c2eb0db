package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config carries one run's settings. Non-secret knobs may come from an
// optional YAML file; environment variables override the file, and secrets
// (transport credentials) only ever come from the environment.
type Config struct {
	BaseURL         string   `yaml:"base_url"`
	Reference       string   `yaml:"reference"`
	MaxMiles        float64  `yaml:"max_miles"`
	MaxPages        int      `yaml:"max_pages"`
	PageConcurrency int      `yaml:"page_concurrency"`
	UserAgent       string   `yaml:"user_agent"`
	MinIntervalMS   int      `yaml:"min_interval_ms"`
	RetryAttempts   int      `yaml:"retry_attempts"`
	RetryBaseMS     int      `yaml:"retry_base_ms"`
	RetryMaxMS      int      `yaml:"retry_max_ms"`
	Recipients      []string `yaml:"recipients"`
	LogJSON         bool     `yaml:"log_json"`

	SMTP SMTPConfig `yaml:"-"`
	SMS  SMSConfig  `yaml:"-"`
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMSConfig struct {
	APIURL     string
	AccountSID string
	AuthToken  string
	From       string
}

const (
	DefaultBaseURL  = "https://www.estatesales.net/TX/Austin/78759"
	DefaultMaxMiles = 15
)

// Load builds the run configuration: defaults, then the YAML file named by
// path (or ESTATEWATCH_CONFIG) when present, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:         DefaultBaseURL,
		MaxMiles:        DefaultMaxMiles,
		MaxPages:        5,
		PageConcurrency: 4,
		MinIntervalMS:   200,
		RetryAttempts:   3,
		RetryBaseMS:     500,
		RetryMaxMS:      5000,
	}

	if path == "" {
		path = strings.TrimSpace(os.Getenv("ESTATEWATCH_CONFIG"))
	}
	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(payload, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envString(&cfg.BaseURL, "ESTATEWATCH_BASE_URL")
	envString(&cfg.Reference, "ESTATEWATCH_REFERENCE")
	envFloat(&cfg.MaxMiles, "ESTATEWATCH_MAX_MILES")
	envInt(&cfg.MaxPages, "ESTATEWATCH_MAX_PAGES")
	envInt(&cfg.PageConcurrency, "ESTATEWATCH_PAGE_CONCURRENCY")
	envString(&cfg.UserAgent, "ESTATEWATCH_USER_AGENT")
	envInt(&cfg.MinIntervalMS, "ESTATEWATCH_MIN_INTERVAL_MS")
	envInt(&cfg.RetryAttempts, "ESTATEWATCH_RETRY_ATTEMPTS")
	envInt(&cfg.RetryBaseMS, "ESTATEWATCH_RETRY_BASE_MS")
	envInt(&cfg.RetryMaxMS, "ESTATEWATCH_RETRY_MAX_MS")
	envBool(&cfg.LogJSON, "ESTATEWATCH_LOG_JSON")

	if raw, ok := os.LookupEnv("ESTATEWATCH_RECIPIENTS"); ok {
		cfg.Recipients = SplitList(raw)
	}

	envString(&cfg.SMTP.Host, "SMTP_HOST")
	envInt(&cfg.SMTP.Port, "SMTP_PORT")
	envString(&cfg.SMTP.Username, "SMTP_USER")
	envString(&cfg.SMTP.Password, "SMTP_PASS")
	envString(&cfg.SMTP.From, "SMTP_FROM")

	envString(&cfg.SMS.APIURL, "SMS_API_URL")
	envString(&cfg.SMS.AccountSID, "SMS_ACCOUNT_SID")
	envString(&cfg.SMS.AuthToken, "SMS_AUTH_TOKEN")
	envString(&cfg.SMS.From, "SMS_FROM")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Reference) == "" {
		return errors.New("config: reference location is required (ESTATEWATCH_REFERENCE)")
	}
	if c.MaxMiles <= 0 {
		return errors.New("config: max miles must be positive")
	}
	if raw, ok := os.LookupEnv("ESTATEWATCH_RECIPIENTS"); ok && len(SplitList(raw)) == 0 {
		return errors.New("config: recipient list is set but empty")
	}
	if c.TransportConfigured() && len(c.Recipients) == 0 {
		return errors.New("config: transport configured but no recipients")
	}
	return nil
}

// SMTPConfigured reports whether enough SMTP settings are present to submit
// mail; without them dispatch falls back to the SMS API or preview mode.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}

func (c *Config) SMSConfigured() bool {
	return c.SMS.APIURL != "" && c.SMS.AccountSID != "" && c.SMS.AuthToken != "" && c.SMS.From != ""
}

func (c *Config) TransportConfigured() bool {
	return c.SMTPConfigured() || c.SMSConfigured()
}

// SplitList splits a comma-separated value, dropping empty entries.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func envString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

func envInt(dst *int, key string) {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*dst = parsed
		}
	}
}

func envFloat(dst *float64, key string) {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			*dst = parsed
		}
	}
}

func envBool(dst *bool, key string) {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			*dst = parsed
		}
	}
}
