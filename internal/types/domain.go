package types

import "time"

// PropertyType is the categorical classification of a listed property. It
// drives template selection, personalized content, and production notes.
type PropertyType string

const (
	PropertyResidentialHome PropertyType = "residential_home"
	PropertyCondominium     PropertyType = "condominium"
	PropertyTownhouse       PropertyType = "townhouse"
	PropertyApartment       PropertyType = "apartment"
	PropertyCommercial      PropertyType = "commercial"
	PropertyLuxuryHome      PropertyType = "luxury_home"
)

// Display returns a human-readable form of the property type
// ("luxury_home" -> "Luxury Home").
func (t PropertyType) Display() string {
	switch t {
	case PropertyResidentialHome:
		return "Residential Home"
	case PropertyCondominium:
		return "Condominium"
	case PropertyTownhouse:
		return "Townhouse"
	case PropertyApartment:
		return "Apartment"
	case PropertyCommercial:
		return "Commercial"
	case PropertyLuxuryHome:
		return "Luxury Home"
	default:
		return string(t)
	}
}

// PropertyInfo is the structured summary of a listing page, derived once per
// event from a fetched page (or a URL fallback) and immutable thereafter.
type PropertyInfo struct {
	Title       string       `json:"title"`
	Type        PropertyType `json:"type"`
	Location    string       `json:"location"`
	Price       string       `json:"price"`
	Features    []string     `json:"features"`
	Description string       `json:"description"`
}

// OrderDetails carries the customer's order preferences, supplied by the
// inbound event and immutable.
type OrderDetails struct {
	MusicType     string
	Voiceover     bool
	BrandingAsset string
	PropertyURL   string
}

// DefaultMusicType is the music preference used when the customer leaves the
// choice to the service.
const DefaultMusicType = "Let AI Choose"

// CustomerData is the resolved recipient identity for an order. Name falls
// back to "Valued Customer" when no usable name can be resolved.
type CustomerData struct {
	Email string
	Name  string
}

// CompletionDetails carries the video-completion event data needed to render
// the completion notice.
type CompletionDetails struct {
	VideoFileURL      string
	VideoThumbnailURL string
	CompletedAt       string
	CreatedAt         string
	MusicType         string
	Voiceover         bool
}

// Celebration is the delivery-speed tier shown in the completion email.
// Derived purely from elapsed hours between order creation and completion;
// it has no persisted identity.
type Celebration struct {
	IsEarly        bool
	Icon           string
	BadgeText      string
	Title          string
	Message        string
	TimeText       string
	EfficiencyText string
}

// EmailType identifies which customer-facing email a log record describes.
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeVideoCompletion   EmailType = "video_completion"
)

// EmailStatus is the delivery outcome recorded for a dispatched email.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// EmailLog is one row of the append-only delivery log. Exactly one record is
// written per inbound webhook call that reaches the dispatch step, whether or
// not delivery succeeded. Records are never mutated after insert (the
// updated_at column is maintained by the database).
type EmailLog struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"order_id"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerName    string      `json:"customer_name"`
	PropertyTitle   string      `json:"property_title"`
	EmailSubject    string      `json:"email_subject"`
	EmailContent    string      `json:"email_content"`
	EmailType       EmailType   `json:"email_type"`
	Status          EmailStatus `json:"status"`
	ResendMessageID string      `json:"resend_message_id,omitempty"`
	SentAt          *time.Time  `json:"sent_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// EmailLogFilter narrows an email-log listing. Zero-valued fields are
// ignored. Limit defaults to 50 when unset; results are newest first.
type EmailLogFilter struct {
	OrderID       string
	CustomerEmail string
	Status        EmailStatus
	Limit         int
}

// SenderIdentity is the From address/name pair used for outbound email.
type SenderIdentity struct {
	Address string
	Name    string
}

// SendInput carries pre-rendered email content to an EmailProvider.
type SendInput struct {
	From    SenderIdentity
	To      string
	Subject string
	HTML    string
	// ReferenceID correlates the provider message with the order that
	// produced it. Optional.
	ReferenceID string
}

// DispatchOutcome is the result of a single email provider call. A failed
// dispatch is not an error at the orchestration level; the outcome is
// recorded on the log record instead.
type DispatchOutcome struct {
	Success   bool
	MessageID string
	Err       error
}
