package external

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"listingrelay/internal/types"
)

// fallbackCustomerName is used when no usable name can be resolved from any
// identity tier.
const fallbackCustomerName = "Valued Customer"

// IdentityClientConfig holds the configuration for creating an
// IdentityClient.
type IdentityClientConfig struct {
	BaseURL string
	APIKey  string
	Logger  *slog.Logger
}

// IdentityClient resolves customers against a Supabase-style identity
// platform. Resolution is two-tier: the auth admin users endpoint first,
// then the public profiles table as fallback. All calls go through
// BaseClient for resilience.
type IdentityClient struct {
	base    *BaseClient
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewIdentityClient creates a new IdentityClient.
func NewIdentityClient(httpClient *http.Client, cfg IdentityClientConfig) *IdentityClient {
	base := NewBaseClient(
		httpClient,
		"identity",
		DefaultRetryPolicy(),
		"ListingRelay/1.0",
		WithSleepFunc(time.Sleep),
	)
	return NewIdentityClientWithBase(base, cfg)
}

// NewIdentityClientWithBase creates an IdentityClient with a pre-configured
// BaseClient, for tests.
func NewIdentityClientWithBase(base *BaseClient, cfg IdentityClientConfig) *IdentityClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityClient{
		base:    base,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// adminUserResponse is the relevant subset of the auth admin user payload.
// The platform exposes user-supplied names under either user_metadata or
// raw_user_meta_data depending on the signup path.
type adminUserResponse struct {
	Email           string         `json:"email"`
	UserMetadata    map[string]any `json:"user_metadata"`
	RawUserMetadata map[string]any `json:"raw_user_meta_data"`
}

// profileRow is one row of the public profiles table.
type profileRow struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Name     string `json:"name"`
}

// ResolveCustomer implements IdentityProvider. It queries the auth admin
// users endpoint and, on any non-200 outcome, falls back to the profiles
// table. When both tiers fail, the returned error carries
// ErrCodeCustomerUnresolvable so the webhook handler reports a 400.
func (c *IdentityClient) ResolveCustomer(ctx context.Context, userID string) (*types.CustomerData, error) {
	customer, err := c.fetchAuthUser(ctx, userID)
	if err == nil {
		return customer, nil
	}

	c.logger.Warn("auth user lookup failed; trying profile fallback",
		"user_id", userID, "error", err)

	customer, profileErr := c.fetchProfile(ctx, userID)
	if profileErr == nil {
		return customer, nil
	}

	return nil, types.NewAppError(
		types.ErrCodeCustomerUnresolvable,
		"Could not fetch customer data",
		fmt.Errorf("auth lookup: %v; profile lookup: %w", err, profileErr),
	)
}

// fetchAuthUser queries GET {base}/auth/v1/admin/users/{id}.
func (c *IdentityClient) fetchAuthUser(ctx context.Context, userID string) (*types.CustomerData, error) {
	reqURL := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth users endpoint returned %d", resp.StatusCode)
	}

	var user adminUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding auth user response: %w", err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("auth user %s has no email", userID)
	}

	name := metadataName(user.UserMetadata)
	if name == "" {
		name = metadataName(user.RawUserMetadata)
	}
	if name == "" {
		name = nameFromEmail(user.Email)
	}
	if name == "" {
		name = fallbackCustomerName
	}

	return &types.CustomerData{Email: user.Email, Name: name}, nil
}

// fetchProfile queries GET {base}/rest/v1/profiles?user_id=eq.{id}.
func (c *IdentityClient) fetchProfile(ctx context.Context, userID string) (*types.CustomerData, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/profiles?user_id=eq.%s&select=*", c.baseURL, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profiles endpoint returned %d", resp.StatusCode)
	}

	var profiles []profileRow
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decoding profiles response: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile row for user %s", userID)
	}

	p := profiles[0]
	if p.Email == "" {
		return nil, fmt.Errorf("profile for user %s has no email", userID)
	}

	name := p.FullName
	if name == "" {
		name = p.Name
	}
	if name == "" {
		name = fallbackCustomerName
	}

	return &types.CustomerData{Email: p.Email, Name: name}, nil
}

// setAuthHeaders sets the platform's dual auth headers.
func (c *IdentityClient) setAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// metadataName pulls full_name or name out of a metadata map.
func metadataName(meta map[string]any) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta["full_name"].(string); ok && v != "" {
		return v
	}
	if v, ok := meta["name"].(string); ok && v != "" {
		return v
	}
	return ""
}

// nameFromEmail derives a display name from the local part of an email
// address ("jane.doe@x.com" -> "Jane.doe").
func nameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return ""
	}
	return strings.ToUpper(local[:1]) + strings.ToLower(local[1:])
}

// Compile-time assertion that IdentityClient satisfies IdentityProvider.
var _ IdentityProvider = (*IdentityClient)(nil)
