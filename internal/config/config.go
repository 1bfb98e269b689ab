// Package config defines the global configuration structure for the listing
// relay service. Configuration is loaded once at process initialization and
// is immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File
//
// There are no compiled-in default credentials: any missing required value
// or invalid format causes startup to fail immediately.
package config

import (
	"time"

	"listingrelay/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the relay. It is
// populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"listing-relay"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
	Identity IdentityConfig
	Scraper  ScraperConfig
	Admin    AdminConfig

	// Build Metadata (injected via ldflags, not env)
	Build BuildInfo
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required"`

	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
}

// EmailConfig holds email delivery provider credentials and sender identity.
// Provider selects the EmailProvider implementation at startup: "resend"
// (default) or "ses".
type EmailConfig struct {
	Provider      string       `envconfig:"EMAIL_PROVIDER" default:"resend" validate:"oneof=resend ses"`
	ResendAPIKey  SecretString `envconfig:"RESEND_API_KEY"`
	ResendBaseURL string       `envconfig:"RESEND_BASE_URL"` // override for testing
	FromAddress   string       `envconfig:"EMAIL_FROM_ADDRESS" validate:"required,email"`
	FromName      string       `envconfig:"EMAIL_FROM_NAME" default:"Voila Video"`
	// AWS region for the SES provider; unused when Provider is "resend".
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`
}

// IdentityConfig holds the Supabase-style identity service credentials used
// to resolve customer data from webhook user ids.
type IdentityConfig struct {
	BaseURL string       `envconfig:"IDENTITY_BASE_URL" validate:"required,url"`
	APIKey  SecretString `envconfig:"IDENTITY_API_KEY" validate:"required"`
}

// ScraperConfig holds listing-page fetch parameters.
type ScraperConfig struct {
	FetchTimeout time.Duration `envconfig:"SCRAPER_FETCH_TIMEOUT" default:"10s"`
	UserAgent    string        `envconfig:"SCRAPER_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
}

// AdminConfig holds internal-notification settings.
type AdminConfig struct {
	// NotifyEmail receives the admin-facing copy of every new order.
	NotifyEmail string `envconfig:"ADMIN_NOTIFY_EMAIL" validate:"required,email"`
	// SupportEmail appears in customer-facing email footers.
	SupportEmail string `envconfig:"SUPPORT_EMAIL" default:"support@voilaapp.ai"`
}

// BuildInfo carries version metadata injected at link time.
type BuildInfo struct {
	Version string
	Commit  string
}
