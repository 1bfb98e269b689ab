// Package email renders the relay's three outbound email documents from
// embedded HTML templates. All user-supplied text (names, scraped titles,
// locations) passes through html/template's contextual escaping.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"listingrelay/internal/content"
	"listingrelay/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// RenderedEmail holds the pre-rendered email content ready for
// transmission.
type RenderedEmail struct {
	Subject  string
	BodyHTML string
}

// Renderer parses the embedded templates once at construction and renders
// the order-confirmation, admin-notification, and completion-notice
// documents.
type Renderer struct {
	orderConfirmation *template.Template
	adminNotification *template.Template
	completionNotice  *template.Template
}

var templateFuncs = template.FuncMap{
	"titleWords": titleWords,
}

// NewRenderer parses the embedded templates and returns a Renderer.
// Returns an error if any template fails to parse.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{}

	for _, t := range []struct {
		name string
		dst  **template.Template
	}{
		{"order_confirmation", &r.orderConfirmation},
		{"admin_notification", &r.adminNotification},
		{"completion_notice", &r.completionNotice},
	} {
		raw, err := templateFS.ReadFile(fmt.Sprintf("templates/%s.html", t.name))
		if err != nil {
			return nil, fmt.Errorf("renderer: failed to read %s.html: %w", t.name, err)
		}
		tmpl, err := template.New(t.name).Funcs(templateFuncs).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("renderer: failed to parse %s.html: %w", t.name, err)
		}
		*t.dst = tmpl
	}

	return r, nil
}

// orderConfirmationView is the data passed to order_confirmation.html.
type orderConfirmationView struct {
	Greeting     string
	ValueProp    string
	Process      string
	LocationNote string
	ServiceNotes []string

	PropertyTitle string
	Location      string
	Price         string
	Features      []string

	Voiceover bool
	MusicType string
}

// RenderOrderConfirmation renders the customer-facing confirmation for a
// new order.
func (r *Renderer) RenderOrderConfirmation(customer types.CustomerData, info types.PropertyInfo, order types.OrderDetails) (RenderedEmail, error) {
	bundle := content.ForOrder(customer.Name, info, order)

	view := orderConfirmationView{
		Greeting:      bundle.Greeting,
		ValueProp:     bundle.ValueProp,
		Process:       bundle.Process,
		LocationNote:  bundle.LocationNote,
		ServiceNotes:  bundle.ServiceNotes,
		PropertyTitle: info.Title,
		Location:      info.Location,
		Price:         info.Price,
		Features:      capFeatures(info.Features, 4),
		Voiceover:     order.Voiceover,
		MusicType:     order.MusicType,
	}

	html, err := r.execute(r.orderConfirmation, view)
	if err != nil {
		return RenderedEmail{}, err
	}

	return RenderedEmail{
		Subject:  fmt.Sprintf("Your Voila Video Order Confirmed - %s", info.Title),
		BodyHTML: html,
	}, nil
}

// adminNotificationView is the data passed to admin_notification.html.
type adminNotificationView struct {
	OrderID       string
	OrderStatus   string
	OrderDate     string
	PropertyType  string
	Priority      string
	CustomerName  string
	CustomerEmail string

	PropertyTitle string
	Location      string
	Price         string
	PropertyURL   string
	Features      []string

	MusicType      string
	Voiceover      bool
	BrandingAsset  string
	ProductionNote string
}

// RenderAdminNotification renders the internal order notification sent to
// the operations inbox. orderStatus and createdAt come straight off the
// webhook record.
func (r *Renderer) RenderAdminNotification(orderID string, customer types.CustomerData, info types.PropertyInfo, order types.OrderDetails, orderStatus, createdAt string) (RenderedEmail, error) {
	if orderStatus == "" {
		orderStatus = "pending"
	}

	orderDate := "N/A"
	if len(createdAt) >= 10 {
		orderDate = createdAt[:10]
	}

	priority := "Standard"
	if info.Type == types.PropertyLuxuryHome {
		priority = "High"
	}

	view := adminNotificationView{
		OrderID:        orderID,
		OrderStatus:    titleWords(orderStatus),
		OrderDate:      orderDate,
		PropertyType:   info.Type.Display(),
		Priority:       priority,
		CustomerName:   customer.Name,
		CustomerEmail:  customer.Email,
		PropertyTitle:  info.Title,
		Location:       info.Location,
		Price:          info.Price,
		PropertyURL:    order.PropertyURL,
		Features:       capFeatures(info.Features, 6),
		MusicType:      order.MusicType,
		Voiceover:      order.Voiceover,
		BrandingAsset:  order.BrandingAsset,
		ProductionNote: content.ProductionNote(info.Type),
	}

	html, err := r.execute(r.adminNotification, view)
	if err != nil {
		return RenderedEmail{}, err
	}

	return RenderedEmail{
		Subject:  fmt.Sprintf("New Video Order: %s", info.Title),
		BodyHTML: html,
	}, nil
}

// completionNoticeView is the data passed to completion_notice.html.
type completionNoticeView struct {
	Greeting     string
	Description  string
	MarketingTip string

	Celebration types.Celebration

	PropertyTitle string
	Location      string

	VideoFeatures []string
	VideoFileURL  string
	ThumbnailURL  string
}

// RenderCompletionNotice renders the customer-facing notice that a video
// is ready, including the delivery-speed celebration banner when the
// turnaround beat the 48-hour promise.
func (r *Renderer) RenderCompletionNotice(customer types.CustomerData, info types.PropertyInfo, completion types.CompletionDetails) (RenderedEmail, error) {
	bundle := content.ForCompletion(customer.Name, info.Type)
	celebration := content.DeliveryCelebration(completion.CompletedAt, completion.CreatedAt)

	view := completionNoticeView{
		Greeting:      bundle.Greeting,
		Description:   bundle.Description,
		MarketingTip:  bundle.MarketingTip,
		Celebration:   celebration,
		PropertyTitle: info.Title,
		Location:      info.Location,
		VideoFeatures: content.VideoFeatureNotes(completion.MusicType, completion.Voiceover, info.Features),
		VideoFileURL:  completion.VideoFileURL,
		ThumbnailURL:  completion.VideoThumbnailURL,
	}

	html, err := r.execute(r.completionNotice, view)
	if err != nil {
		return RenderedEmail{}, err
	}

	return RenderedEmail{
		Subject:  fmt.Sprintf("🎬 Your %s Video is Ready!", info.Title),
		BodyHTML: html,
	}, nil
}

func (r *Renderer) execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalTemplate,
			fmt.Sprintf("failed to render %s template", tmpl.Name()),
			err,
		)
	}
	return buf.String(), nil
}

func capFeatures(features []string, n int) []string {
	if len(features) > n {
		return features[:n]
	}
	return features
}

// titleWords capitalizes each space-separated word ("4 bedrooms" -> "4
// Bedrooms").
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
