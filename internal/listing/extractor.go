// Package listing fetches real-estate listing pages and distills them into
// a structured property summary. Extraction is best-effort: every fetch or
// parse failure degrades to a URL-derived fallback, never an error, so the
// webhook path can always render an email.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"listingrelay/internal/types"
)

// Extractor resolves a listing URL into a PropertyInfo.
type Extractor interface {
	Extract(ctx context.Context, propertyURL string) types.PropertyInfo
}

// PageExtractorConfig holds the configuration for creating a PageExtractor.
type PageExtractorConfig struct {
	FetchTimeout time.Duration
	UserAgent    string
	Logger       *slog.Logger
}

// PageExtractor implements Extractor by fetching the page over HTTP and
// applying ordered selector heuristics.
type PageExtractor struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewPageExtractor creates a PageExtractor. A zero FetchTimeout defaults to
// 10 seconds.
func NewPageExtractor(cfg PageExtractorConfig) *PageExtractor {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PageExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Extract fetches the listing page and extracts title, type, location,
// price, features, and description. Any failure along the way returns the
// URL fallback instead of an error.
func (e *PageExtractor) Extract(ctx context.Context, propertyURL string) types.PropertyInfo {
	doc, err := e.fetch(ctx, propertyURL)
	if err != nil {
		e.logger.Warn("listing page fetch failed; using URL fallback",
			"property_url", propertyURL, "error", err)
		return FallbackPropertyInfo(propertyURL)
	}

	fullText := pageText(doc)

	return types.PropertyInfo{
		Title:       extractTitle(doc, propertyURL),
		Type:        ClassifyPropertyType(fullText),
		Location:    extractLocation(doc),
		Price:       extractPrice(doc),
		Features:    extractFeatures(fullText),
		Description: extractDescription(doc),
	}
}

func (e *PageExtractor) fetch(ctx context.Context, propertyURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, propertyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building page request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return doc, nil
}

// FallbackPropertyInfo builds the PropertyInfo used when the page cannot be
// fetched or parsed: a title derived from the URL and default everything
// else.
func FallbackPropertyInfo(propertyURL string) types.PropertyInfo {
	return types.PropertyInfo{
		Title:    TitleFromURL(propertyURL),
		Type:     types.PropertyResidentialHome,
		Features: []string{},
	}
}

// Compile-time assertion that PageExtractor satisfies Extractor.
var _ Extractor = (*PageExtractor)(nil)
