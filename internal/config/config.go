package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/extranet-bot/internal/logger"
)

// Config holds all configuration settings that are not credentials.
type Config struct {
	// BaseURL is the root of the extranet, every section path is resolved against it.
	BaseURL string `mapstructure:"base_url"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// Headless runs the browser without a window.
	Headless bool `mapstructure:"headless"`
	// UseSystemBrowser prefers an installed Chrome over a downloaded Chromium.
	UseSystemBrowser bool `mapstructure:"use_system_browser"`
	// UserAgent is the User-Agent presented by the browser.
	UserAgent string `mapstructure:"user_agent"`
	// AcceptLanguage is sent as the Accept-Language header.
	AcceptLanguage string `mapstructure:"accept_language"`
	// ViewportWidth is the emulated viewport width in pixels.
	ViewportWidth int `mapstructure:"viewport_width"`
	// ViewportHeight is the emulated viewport height in pixels.
	ViewportHeight int `mapstructure:"viewport_height"`
	// Locale is the emulated browser locale (e.g. "en-US").
	Locale string `mapstructure:"locale"`
	// TimezoneID is the emulated IANA time zone (e.g. "UTC").
	TimezoneID string `mapstructure:"timezone_id"`
	// SelectorTimeout is how long to wait for an element (e.g. "5s").
	SelectorTimeout string `mapstructure:"selector_timeout"`
	// NavigationTimeout is how long to wait for a page to settle after navigation.
	NavigationTimeout string `mapstructure:"navigation_timeout"`
	// LoginTimeout bounds the whole login flow.
	LoginTimeout string `mapstructure:"login_timeout"`
	// CodeInputTimeout bounds the wait for an operator-entered 2FA code.
	CodeInputTimeout string `mapstructure:"code_input_timeout"`
	// MaxCodeAttempts is the number of prompts before malformed input aborts the login.
	MaxCodeAttempts int64 `mapstructure:"max_code_attempts"`
	// ReservationsDaysAhead is the default look-ahead window for reservations.
	ReservationsDaysAhead int64 `mapstructure:"reservations_days_ahead"`
	// RateStatusFile is the CSV file tracking rate updates.
	RateStatusFile string `mapstructure:"rate_status_file"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedSelectorTimeout is the parsed selector timeout.
	ParsedSelectorTimeout time.Duration
	// ParsedNavigationTimeout is the parsed navigation timeout.
	ParsedNavigationTimeout time.Duration
	// ParsedLoginTimeout is the parsed login timeout.
	ParsedLoginTimeout time.Duration
	// ParsedCodeInputTimeout is the parsed code input timeout.
	ParsedCodeInputTimeout time.Duration
}

const (
	// DefaultBaseURL is the Booking.com partner extranet.
	DefaultBaseURL = "https://admin.booking.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".extranet-bot.yaml"

	// DefaultUserAgent mimics a desktop Chrome so the extranet serves the regular UI.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" //nolint:lll

	// DefaultAcceptLanguage is the default Accept-Language header value.
	DefaultAcceptLanguage = "en-US,en;q=0.9"

	// DefaultMaxCodeAttempts is the default number of 2FA prompts.
	DefaultMaxCodeAttempts = 3

	// DefaultRateStatusFile is the default rate tracking CSV.
	DefaultRateStatusFile = "rates.csv"
)

// Static error definitions for better error handling.
var (
	// ErrInvalidBaseURL indicates that the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("base_url must be an absolute http(s) URL")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidViewport indicates that the viewport size is not positive.
	ErrInvalidViewport = errors.New("viewport width and height must be positive")
	// ErrInvalidTimeout indicates that a timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrInvalidCodeAttempts indicates that the code attempts count is invalid.
	ErrInvalidCodeAttempts = errors.New("max_code_attempts must be a positive integer")
	// ErrInvalidDaysAhead indicates that the reservations window is negative.
	ErrInvalidDaysAhead = errors.New("reservations_days_ahead cannot be negative")
)

// setDefaults registers the value of every key so a missing file still yields a usable config.
func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("headless", false)
	v.SetDefault("use_system_browser", true)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("accept_language", DefaultAcceptLanguage)
	v.SetDefault("viewport_width", 1920)
	v.SetDefault("viewport_height", 1080)
	v.SetDefault("locale", "en-US")
	v.SetDefault("timezone_id", "UTC")
	v.SetDefault("selector_timeout", "5s")
	v.SetDefault("navigation_timeout", "15s")
	v.SetDefault("login_timeout", "10m")
	v.SetDefault("code_input_timeout", "5m")
	v.SetDefault("max_code_attempts", DefaultMaxCodeAttempts)
	v.SetDefault("reservations_days_ahead", 7)
	v.SetDefault("rate_status_file", DefaultRateStatusFile)
}

// LoadConfig loads configuration settings from a YAML file.
// When no filename is given and the default file does not exist, defaults are used.
func LoadConfig(configFilename string) (*Config, error) {
	isDefaultFile := configFilename == ""
	if isDefaultFile {
		configFilename = DefaultConfigFilename
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configFilename)

	if err := v.ReadInConfig(); err != nil {
		if !isDefaultFile || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return fmt.Errorf("%w: '%s'", ErrInvalidBaseURL, cfg.BaseURL)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return ErrInvalidViewport
	}

	timeouts := []struct {
		name   string
		raw    string
		target *time.Duration
	}{
		{"selector timeout", cfg.SelectorTimeout, &cfg.ParsedSelectorTimeout},
		{"navigation timeout", cfg.NavigationTimeout, &cfg.ParsedNavigationTimeout},
		{"login timeout", cfg.LoginTimeout, &cfg.ParsedLoginTimeout},
		{"code input timeout", cfg.CodeInputTimeout, &cfg.ParsedCodeInputTimeout},
	}

	for _, timeout := range timeouts {
		*timeout.target, err = time.ParseDuration(timeout.raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", timeout.name, err)
		}

		if *timeout.target <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, timeout.name)
		}
	}

	if cfg.MaxCodeAttempts <= 0 {
		return ErrInvalidCodeAttempts
	}

	if cfg.ReservationsDaysAhead < 0 {
		return ErrInvalidDaysAhead
	}

	return nil
}
