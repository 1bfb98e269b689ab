// Package handlers contains the HTTP handler implementations for the
// listing relay API: the inbound data-platform webhooks, the email-log
// read endpoints, and the test-email preview endpoint.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"listingrelay/internal/core"
	"listingrelay/internal/relay"
	"listingrelay/internal/types"
)

// OrderDispatcher runs the relay pipeline for an inbound event. Satisfied
// by *relay.Dispatcher; defined locally so tests can swap in a mock.
type OrderDispatcher interface {
	HandleNewOrder(ctx context.Context, evt relay.NewOrderEvent) (*relay.NewOrderResult, error)
	HandleVideoCompleted(ctx context.Context, evt relay.VideoCompletedEvent) (*relay.CompletionResult, error)
}

// webhookEnvelope is the outer shape of every data-platform webhook. The
// record carries the inserted or updated row; extra columns are ignored.
type webhookEnvelope struct {
	Record *webhookRecord `json:"record"`
}

// webhookRecord is the union of the row fields the relay reads from either
// webhook. Which fields are required depends on the route.
type webhookRecord struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	PropertyURL       string `json:"property_url"`
	MusicType         string `json:"music_type"`
	Voiceover         bool   `json:"voiceover"`
	BrandingAsset     string `json:"branding_asset"`
	OrderStatus       string `json:"order_status"`
	CreatedAt         string `json:"created_at"`
	VideoFileURL      string `json:"video_file_url"`
	VideoThumbnailURL string `json:"video_thumbnail_url"`
	CompletedAt       string `json:"completed_at"`
}

// newOrderResponse is the success body for the new-order webhook.
type newOrderResponse struct {
	Success               bool   `json:"success"`
	Message               string `json:"message"`
	EmailLogID            string `json:"email_log_id"`
	ResendMessageID       string `json:"resend_message_id,omitempty"`
	PropertyTitle         string `json:"property_title"`
	AdminNotificationSent bool   `json:"admin_notification_sent"`
}

// videoCompletedResponse is the success body for the video-completed
// webhook.
type videoCompletedResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	EmailLogID      string `json:"email_log_id"`
	ResendMessageID string `json:"resend_message_id,omitempty"`
	PropertyTitle   string `json:"property_title"`
}

// WebhookHandler serves the two inbound data-platform webhooks.
type WebhookHandler struct {
	dispatcher OrderDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(dispatcher OrderDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes mounts the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook/supabase/new-order", h.HandleNewOrder)
	r.Post("/webhook/supabase/video-completed", h.HandleVideoCompleted)
}

// HandleNewOrder handles POST /webhook/supabase/new-order.
func (h *WebhookHandler) HandleNewOrder(w http.ResponseWriter, r *http.Request) {
	record, err := h.decodeRecord(w, r, "id", "user_id", "property_url")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.Info("new order webhook received", "order_id", record.ID, "user_id", record.UserID)

	result, err := h.dispatcher.HandleNewOrder(r.Context(), relay.NewOrderEvent{
		ID:            record.ID,
		UserID:        record.UserID,
		PropertyURL:   record.PropertyURL,
		MusicType:     record.MusicType,
		Voiceover:     record.Voiceover,
		BrandingAsset: record.BrandingAsset,
		OrderStatus:   record.OrderStatus,
		CreatedAt:     record.CreatedAt,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, newOrderResponse{
		Success:               true,
		Message:               "Order confirmation email sent successfully",
		EmailLogID:            result.EmailLogID,
		ResendMessageID:       result.MessageID,
		PropertyTitle:         result.PropertyTitle,
		AdminNotificationSent: result.AdminNotificationSent,
	})
}

// HandleVideoCompleted handles POST /webhook/supabase/video-completed.
func (h *WebhookHandler) HandleVideoCompleted(w http.ResponseWriter, r *http.Request) {
	record, err := h.decodeRecord(w, r, "id", "user_id", "video_file_url")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.Info("video completed webhook received", "order_id", record.ID, "user_id", record.UserID)

	result, err := h.dispatcher.HandleVideoCompleted(r.Context(), relay.VideoCompletedEvent{
		ID:                record.ID,
		UserID:            record.UserID,
		VideoFileURL:      record.VideoFileURL,
		VideoThumbnailURL: record.VideoThumbnailURL,
		PropertyURL:       record.PropertyURL,
		MusicType:         record.MusicType,
		Voiceover:         record.Voiceover,
		CompletedAt:       record.CompletedAt,
		CreatedAt:         record.CreatedAt,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, videoCompletedResponse{
		Success:         true,
		Message:         "Video completion email sent successfully",
		EmailLogID:      result.EmailLogID,
		ResendMessageID: result.MessageID,
		PropertyTitle:   result.PropertyTitle,
	})
}

// decodeRecord parses the webhook envelope and enforces presence of the
// required record fields for the route.
func (h *WebhookHandler) decodeRecord(w http.ResponseWriter, r *http.Request, required ...string) (*webhookRecord, error) {
	var envelope webhookEnvelope
	if err := core.DecodeJSON(w, r, &envelope); err != nil {
		return nil, err
	}
	if envelope.Record == nil {
		return nil, types.NewAppError(types.ErrCodeValidationMissingRecord, "Missing record in payload", nil)
	}

	for _, field := range required {
		if envelope.Record.fieldValue(field) == "" {
			return nil, types.NewAppError(
				types.ErrCodeValidationMissingField,
				"Missing required field: "+field,
				nil,
			)
		}
	}
	return envelope.Record, nil
}

func (rec *webhookRecord) fieldValue(field string) string {
	switch field {
	case "id":
		return rec.ID
	case "user_id":
		return rec.UserID
	case "property_url":
		return rec.PropertyURL
	case "video_file_url":
		return rec.VideoFileURL
	default:
		return ""
	}
}
