package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"listingrelay/internal/core"
	"listingrelay/internal/listing"
	"listingrelay/internal/notifications/email"
	"listingrelay/internal/types"
)

// mockPropertyURL short-circuits listing extraction with a canned luxury
// listing, so the preview endpoint works without a reachable page.
const mockPropertyURL = "https://example.com/property"

// testEmailRequest is the optional body for POST /test-email. Every field
// has a default.
type testEmailRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	PropertyURL   string `json:"property_url"`
	MusicType     string `json:"music_type"`
	Voiceover     bool   `json:"voiceover"`
}

// testEmailResponse is the body for POST /test-email.
type testEmailResponse struct {
	Success        bool               `json:"success"`
	TestData       testEmailRequest   `json:"test_data"`
	PropertyInfo   types.PropertyInfo `json:"property_info"`
	GeneratedEmail generatedEmail     `json:"generated_email"`
}

type generatedEmail struct {
	Subject     string `json:"subject"`
	HTMLContent string `json:"html_content"`
}

// TestEmailHandler renders an order-confirmation preview without sending
// anything or touching the email log.
type TestEmailHandler struct {
	extractor listing.Extractor
	renderer  *email.Renderer
	logger    *slog.Logger
}

// NewTestEmailHandler creates a TestEmailHandler.
func NewTestEmailHandler(extractor listing.Extractor, renderer *email.Renderer, logger *slog.Logger) *TestEmailHandler {
	return &TestEmailHandler{extractor: extractor, renderer: renderer, logger: logger}
}

// RegisterRoutes mounts the test-email route.
func (h *TestEmailHandler) RegisterRoutes(r chi.Router) {
	r.Post("/test-email", h.HandleTestEmail)
}

// HandleTestEmail handles POST /test-email. The body is optional; an empty
// body previews the default test scenario.
func (h *TestEmailHandler) HandleTestEmail(w http.ResponseWriter, r *http.Request) {
	req := testEmailRequest{}
	if err := core.DecodeJSON(w, r, &req); err != nil {
		// an absent body is fine here; anything else is still a 400
		var appErr *types.AppError
		if !errors.As(err, &appErr) || !errors.Is(appErr.Err, io.EOF) {
			core.Error(w, r, err)
			return
		}
	}

	if req.CustomerName == "" {
		req.CustomerName = "John Smith"
	}
	if req.CustomerEmail == "" {
		req.CustomerEmail = "test@example.com"
	}
	if req.PropertyURL == "" {
		req.PropertyURL = mockPropertyURL
	}
	if req.MusicType == "" {
		req.MusicType = types.DefaultMusicType
	}

	var info types.PropertyInfo
	if req.PropertyURL == mockPropertyURL {
		info = mockPropertyInfo()
	} else {
		info = h.extractor.Extract(r.Context(), req.PropertyURL)
	}

	rendered, err := h.renderer.RenderOrderConfirmation(
		types.CustomerData{Email: req.CustomerEmail, Name: req.CustomerName},
		info,
		types.OrderDetails{
			MusicType:   req.MusicType,
			Voiceover:   req.Voiceover,
			PropertyURL: req.PropertyURL,
		},
	)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, testEmailResponse{
		Success:      true,
		TestData:     req,
		PropertyInfo: info,
		GeneratedEmail: generatedEmail{
			Subject:     rendered.Subject,
			HTMLContent: rendered.BodyHTML,
		},
	})
}

func mockPropertyInfo() types.PropertyInfo {
	return types.PropertyInfo{
		Title:    "Beautiful Luxury Estate at 123 Oak Avenue",
		Type:     types.PropertyLuxuryHome,
		Location: "123 Oak Avenue, Beverly Hills, CA",
		Price:    "$2,500,000",
		Features: []string{"4 bedrooms", "3 bathrooms", "2,800 sq ft", "pool", "fireplace"},
		Description: "Stunning luxury estate with panoramic views and premium finishes" +
			" throughout.",
	}
}
