// Package relay sequences the work behind each inbound webhook event:
// resolve the customer, enrich with listing metadata, render and dispatch
// the emails, and record the outcome in the email log.
package relay

import (
	"context"
	"log/slog"
	"time"

	"listingrelay/internal/external"
	"listingrelay/internal/listing"
	"listingrelay/internal/notifications/email"
	"listingrelay/internal/types"
)

// EmailLogStore is the subset of the email-log repository used by the
// relay and its read endpoints.
type EmailLogStore interface {
	Insert(ctx context.Context, log *types.EmailLog) error
	List(ctx context.Context, filter types.EmailLogFilter) ([]*types.EmailLog, error)
	GetByID(ctx context.Context, id string) (*types.EmailLog, error)
}

// NewOrderEvent is the validated record of a new-order webhook.
type NewOrderEvent struct {
	ID            string
	UserID        string
	PropertyURL   string
	MusicType     string
	Voiceover     bool
	BrandingAsset string
	OrderStatus   string
	CreatedAt     string
}

// VideoCompletedEvent is the validated record of a video-completed
// webhook.
type VideoCompletedEvent struct {
	ID                string
	UserID            string
	VideoFileURL      string
	VideoThumbnailURL string
	PropertyURL       string
	MusicType         string
	Voiceover         bool
	CompletedAt       string
	CreatedAt         string
}

// NewOrderResult echoes the identifiers produced while handling a new
// order.
type NewOrderResult struct {
	EmailLogID            string `json:"email_log_id"`
	MessageID             string `json:"resend_message_id,omitempty"`
	PropertyTitle         string `json:"property_title"`
	AdminNotificationSent bool   `json:"admin_notification_sent"`
}

// CompletionResult echoes the identifiers produced while handling a video
// completion.
type CompletionResult struct {
	EmailLogID    string `json:"email_log_id"`
	MessageID     string `json:"resend_message_id,omitempty"`
	PropertyTitle string `json:"property_title"`
}

// DispatcherConfig holds the collaborators and addressing configuration
// for a Dispatcher.
type DispatcherConfig struct {
	Provider   external.EmailProvider
	Identity   external.IdentityProvider
	Extractor  listing.Extractor
	Renderer   *email.Renderer
	Logs       EmailLogStore
	From       types.SenderIdentity
	AdminEmail string
	Logger     *slog.Logger
}

// Dispatcher coordinates the per-event pipeline. One customer-facing email
// produces exactly one log record, written whether or not the provider
// accepted the message.
type Dispatcher struct {
	provider   external.EmailProvider
	identity   external.IdentityProvider
	extractor  listing.Extractor
	renderer   *email.Renderer
	logs       EmailLogStore
	from       types.SenderIdentity
	adminEmail string
	logger     *slog.Logger
	now        func() time.Time
}

// NewDispatcher creates a Dispatcher from its collaborators.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		provider:   cfg.Provider,
		identity:   cfg.Identity,
		extractor:  cfg.Extractor,
		renderer:   cfg.Renderer,
		logs:       cfg.Logs,
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleNewOrder runs the new-order pipeline: resolve the customer, scrape
// the listing, send the confirmation to the customer and the notification
// to the operations inbox, and record the customer send in the log.
func (d *Dispatcher) HandleNewOrder(ctx context.Context, evt NewOrderEvent) (*NewOrderResult, error) {
	customer, err := d.identity.ResolveCustomer(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}

	info := d.extractor.Extract(ctx, evt.PropertyURL)

	order := types.OrderDetails{
		MusicType:     musicTypeOrDefault(evt.MusicType),
		Voiceover:     evt.Voiceover,
		BrandingAsset: evt.BrandingAsset,
		PropertyURL:   evt.PropertyURL,
	}

	confirmation, err := d.renderer.RenderOrderConfirmation(*customer, info, order)
	if err != nil {
		return nil, err
	}

	outcome := d.send(ctx, customer.Email, confirmation, evt.ID)

	adminSent := d.sendAdminNotification(ctx, evt, *customer, info, order)

	logRecord := d.buildLogRecord(evt.ID, *customer, info.Title, confirmation, types.EmailTypeOrderConfirmation, outcome)
	if err := d.logs.Insert(ctx, logRecord); err != nil {
		return nil, err
	}

	return &NewOrderResult{
		EmailLogID:            logRecord.ID,
		MessageID:             outcome.MessageID,
		PropertyTitle:         info.Title,
		AdminNotificationSent: adminSent,
	}, nil
}

// HandleVideoCompleted runs the completion pipeline: resolve the customer,
// optionally scrape the listing, send the completion notice, and record
// the send.
func (d *Dispatcher) HandleVideoCompleted(ctx context.Context, evt VideoCompletedEvent) (*CompletionResult, error) {
	customer, err := d.identity.ResolveCustomer(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}

	var info types.PropertyInfo
	if evt.PropertyURL != "" {
		info = d.extractor.Extract(ctx, evt.PropertyURL)
	} else {
		info = types.PropertyInfo{
			Title:    "Your Property Video",
			Type:     types.PropertyResidentialHome,
			Features: []string{},
		}
	}

	completion := types.CompletionDetails{
		VideoFileURL:      evt.VideoFileURL,
		VideoThumbnailURL: evt.VideoThumbnailURL,
		CompletedAt:       evt.CompletedAt,
		CreatedAt:         evt.CreatedAt,
		MusicType:         evt.MusicType,
		Voiceover:         evt.Voiceover,
	}

	notice, err := d.renderer.RenderCompletionNotice(*customer, info, completion)
	if err != nil {
		return nil, err
	}

	outcome := d.send(ctx, customer.Email, notice, evt.ID)

	logRecord := d.buildLogRecord(evt.ID, *customer, info.Title, notice, types.EmailTypeVideoCompletion, outcome)
	if err := d.logs.Insert(ctx, logRecord); err != nil {
		return nil, err
	}

	return &CompletionResult{
		EmailLogID:    logRecord.ID,
		MessageID:     outcome.MessageID,
		PropertyTitle: info.Title,
	}, nil
}

// send calls the email provider and folds the result into a
// DispatchOutcome. Provider failures are an outcome, not an error; the
// log record carries the verdict.
func (d *Dispatcher) send(ctx context.Context, to string, rendered email.RenderedEmail, referenceID string) types.DispatchOutcome {
	msgID, err := d.provider.Send(ctx, types.SendInput{
		From:        d.from,
		To:          to,
		Subject:     rendered.Subject,
		HTML:        rendered.BodyHTML,
		ReferenceID: referenceID,
	})
	if err != nil {
		d.logger.Error("email dispatch failed",
			"to", to, "subject", rendered.Subject, "reference_id", referenceID, "error", err)
		return types.DispatchOutcome{Success: false, Err: err}
	}
	return types.DispatchOutcome{Success: true, MessageID: msgID}
}

// sendAdminNotification renders and sends the internal order notification.
// Failures are logged and reported in the result payload, but never fail
// the webhook.
func (d *Dispatcher) sendAdminNotification(ctx context.Context, evt NewOrderEvent, customer types.CustomerData, info types.PropertyInfo, order types.OrderDetails) bool {
	notification, err := d.renderer.RenderAdminNotification(evt.ID, customer, info, order, evt.OrderStatus, evt.CreatedAt)
	if err != nil {
		d.logger.Error("admin notification render failed", "order_id", evt.ID, "error", err)
		return false
	}

	outcome := d.send(ctx, d.adminEmail, notification, evt.ID)
	return outcome.Success
}

func (d *Dispatcher) buildLogRecord(orderID string, customer types.CustomerData, propertyTitle string, rendered email.RenderedEmail, emailType types.EmailType, outcome types.DispatchOutcome) *types.EmailLog {
	record := &types.EmailLog{
		OrderID:       orderID,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		PropertyTitle: propertyTitle,
		EmailSubject:  rendered.Subject,
		EmailContent:  rendered.BodyHTML,
		EmailType:     emailType,
		Status:        types.EmailStatusFailed,
	}

	if outcome.Success {
		record.Status = types.EmailStatusSent
		record.ResendMessageID = outcome.MessageID
		sentAt := d.now().UTC()
		record.SentAt = &sentAt
	}

	return record
}

func musicTypeOrDefault(musicType string) string {
	if musicType == "" {
		return types.DefaultMusicType
	}
	return musicType
}
