package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"listingrelay/internal/core"
	"listingrelay/internal/relay"
	"listingrelay/internal/types"
)

// emailLogListResponse is the body for GET /email-logs.
type emailLogListResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Logs    []*types.EmailLog `json:"logs"`
}

// EmailLogHandler serves the read-only email-log endpoints.
type EmailLogHandler struct {
	store  relay.EmailLogStore
	logger *slog.Logger
}

// NewEmailLogHandler creates an EmailLogHandler.
func NewEmailLogHandler(store relay.EmailLogStore, logger *slog.Logger) *EmailLogHandler {
	return &EmailLogHandler{store: store, logger: logger}
}

// RegisterRoutes mounts the email-log routes.
func (h *EmailLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/email-logs", h.HandleList)
	r.Get("/email-logs/{id}", h.HandleGet)
}

// HandleList handles GET /email-logs. Supported query parameters:
// order_id, customer_email, status, and limit (default 50).
func (h *EmailLogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := types.EmailLogFilter{
		OrderID:       r.URL.Query().Get("order_id"),
		CustomerEmail: r.URL.Query().Get("customer_email"),
		Status:        types.EmailStatus(r.URL.Query().Get("status")),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationInvalidFilter,
				"limit must be a positive integer",
				err,
			))
			return
		}
		filter.Limit = limit
	}

	logs, err := h.store.List(r.Context(), filter)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, emailLogListResponse{
		Success: true,
		Count:   len(logs),
		Logs:    logs,
	})
}

// HandleGet handles GET /email-logs/{id}.
func (h *EmailLogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	log, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, log)
}
