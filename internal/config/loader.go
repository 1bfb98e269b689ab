// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC timezone to prevent drift bugs in delivery-speed math.
//  2. Load a .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Populate BuildInfo from linker-injected variables.
//  5. Validate the struct using go-playground/validator.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Version metadata, injected at build time via:
//
//	-ldflags "-X listingrelay/internal/config.buildVersion=... -X listingrelay/internal/config.buildCommit=..."
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
type ConfigError struct {
	Stage   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load loads and validates the relay configuration from the environment.
// A .env file in the working directory is merged in when present (existing
// environment variables win). The returned Config has passed structural
// validation; credential validity is only proven by use.
func Load() (*Config, error) {
	// Enforce UTC for all time math in the process.
	time.Local = time.UTC

	// Merge .env if present. Missing file is the normal case outside local dev.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, &ConfigError{Stage: "dotenv", Message: "failed to load .env file", Err: err}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{Stage: "envconfig", Message: "failed to process environment", Err: err}
	}

	cfg.Build = BuildInfo{
		Version: buildVersion,
		Commit:  buildCommit,
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs structural validation over a populated Config. Exposed
// separately so tests can validate hand-built configs without touching the
// process environment.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return &ConfigError{Stage: "validate", Message: "configuration failed validation", Err: err}
	}

	// Cross-field rule: the resend provider needs its API key. The ses
	// provider authenticates via the ambient AWS credential chain.
	if cfg.Email.Provider == "resend" && cfg.Email.ResendAPIKey.Unmask() == "" {
		return &ConfigError{
			Stage:   "validate",
			Message: "RESEND_API_KEY is required when EMAIL_PROVIDER=resend",
		}
	}

	return nil
}
