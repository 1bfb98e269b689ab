package external

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"listingrelay/internal/config"
)

// NewEmailProvider constructs the EmailProvider selected by configuration.
// "resend" is the primary provider; "ses" is the alternate for deployments
// already living on AWS. Config validation guarantees the provider name is
// one of the two.
func NewEmailProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (EmailProvider, error) {
	switch cfg.Email.Provider {
	case "resend":
		httpClient := &http.Client{Timeout: 10 * time.Second}
		return NewResendClient(httpClient, ResendClientConfig{
			APIKey:  cfg.Email.ResendAPIKey.Unmask(),
			BaseURL: cfg.Email.ResendBaseURL,
			Logger:  logger,
		}), nil

	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Email.AWSRegion),
		)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config for SES provider: %w", err)
		}
		return NewSESClient(awsCfg, logger), nil

	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}
