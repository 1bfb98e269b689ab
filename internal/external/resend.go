package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"listingrelay/internal/types"
)

// resendAPIBase is the default Resend API base URL. Overridable in tests
// via ResendClientConfig.BaseURL.
const resendAPIBase = "https://api.resend.com"

// ResendClientConfig holds the configuration for creating a ResendClient.
type ResendClientConfig struct {
	APIKey  string
	BaseURL string // override for testing; defaults to resendAPIBase
	Logger  *slog.Logger
}

// ResendClient implements EmailProvider by calling the Resend /emails
// endpoint through BaseClient, so all sends inherit the platform's circuit
// breaker, retries, and error mapping, and tests can point it at httptest.
type ResendClient struct {
	base    *BaseClient
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// NewResendClient creates a new ResendClient. The httpClient timeout should
// be short (10s) since the send call runs inside a synchronous webhook.
func NewResendClient(httpClient *http.Client, cfg ResendClientConfig) *ResendClient {
	base := NewBaseClient(
		httpClient,
		"resend",
		DefaultRetryPolicy(),
		"ListingRelay/1.0",
		WithSleepFunc(time.Sleep),
	)
	return NewResendClientWithBase(base, cfg)
}

// NewResendClientWithBase creates a ResendClient with a pre-configured
// BaseClient. Useful in tests to disable retries.
func NewResendClientWithBase(base *BaseClient, cfg ResendClientConfig) *ResendClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = resendAPIBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ResendClient{
		base:    base,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// resendSendPayload is the POST /emails request body.
type resendSendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	// Tags correlate the provider message with the originating order.
	Tags []resendTag `json:"tags,omitempty"`
}

type resendTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// resendSendResponse is the success body; the provider message ID lives in
// the id field.
type resendSendResponse struct {
	ID string `json:"id"`
}

// resendErrorResponse is the error body returned by Resend.
type resendErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send transmits an email via POST /emails and returns the provider message
// ID on success.
//
// Error mapping:
//   - 403 -> types.ErrCodeEmailBlocked (suppressed or unverified recipient)
//   - 429 -> handled by BaseClient (retry + ErrCodeUpstreamRateLimited)
//   - 5xx -> handled by BaseClient (retry + ErrCodeUpstreamUnavailable)
//   - other 4xx -> types.ErrCodeUpstreamEmailProvider
func (c *ResendClient) Send(ctx context.Context, input types.SendInput) (string, error) {
	from := input.From.Address
	if input.From.Name != "" {
		from = fmt.Sprintf("%s <%s>", input.From.Name, input.From.Address)
	}

	payload := resendSendPayload{
		From:    from,
		To:      []string{input.To},
		Subject: input.Subject,
		HTML:    input.HTML,
	}
	if input.ReferenceID != "" {
		payload.Tags = []resendTag{{Name: "order_id", Value: input.ReferenceID}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to marshal Resend send payload",
			err,
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create Resend send request",
			err,
		)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", c.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var out resendSendResponse
		if decErr := json.NewDecoder(resp.Body).Decode(&out); decErr != nil {
			return "", types.NewAppError(
				types.ErrCodeUpstreamEmailProvider,
				"Resend returned 200 with an unreadable body",
				decErr,
			)
		}
		return out.ID, nil
	}

	return "", c.handleErrorResponse(resp)
}

// handleErrorResponse reads a Resend error body and maps it to an AppError.
func (c *ResendClient) handleErrorResponse(resp *http.Response) error {
	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return types.NewAppError(
			types.ErrCodeUpstreamEmailProvider,
			fmt.Sprintf("Resend returned status %d and the response body was unreadable", resp.StatusCode),
			readErr,
		)
	}

	message := string(raw)
	var apiErr resendErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
		message = apiErr.Message
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return types.NewAppError(
			types.ErrCodeEmailBlocked,
			fmt.Sprintf("Resend blocked delivery: %s", message),
			nil,
		)
	default:
		return types.NewAppError(
			types.ErrCodeUpstreamEmailProvider,
			fmt.Sprintf("Resend error (%d): %s", resp.StatusCode, message),
			nil,
		)
	}
}

// wrapTransportError passes through AppErrors from BaseClient and wraps
// anything else.
func (c *ResendClient) wrapTransportError(err error) error {
	if _, ok := err.(*types.AppError); ok {
		return err
	}
	return types.NewAppError(
		types.ErrCodeUpstreamEmailProvider,
		fmt.Sprintf("Resend request failed: %v", err),
		err,
	)
}

// Compile-time assertion that ResendClient satisfies EmailProvider.
var _ EmailProvider = (*ResendClient)(nil)
