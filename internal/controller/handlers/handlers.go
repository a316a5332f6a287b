// Package handlers contains HTTP handlers for the booking API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dtapi/internal/apperr"
	"dtapi/internal/logger"
	"dtapi/internal/observability"
	"dtapi/internal/store"
	"dtapi/pkg/api"
)

// StoreFactory combines the interfaces needed for the API to function.
type StoreFactory interface {
	Ping(ctx context.Context) error
	store.BookingStore
	store.UserStore
}

// Operation names, used for metrics and spans.
const (
	OpListJobs      = "listJobs"
	OpGetJob        = "getJob"
	OpCreateJob     = "createJob"
	OpUpdateJob     = "updateJob"
	OpJobEmail      = "sendImmediateJobEmail"
	OpJobHistory    = "getJobHistory"
	OpAcceptJob     = "acceptJob"
	OpDistanceFeed  = "ingestDistanceFeed"
	defaultFailText = "Internal server error"
)

// failMessages are the fixed client messages for unexpected failures.
var failMessages = map[string]string{
	OpListJobs:     "Failed to fetch jobs",
	OpGetJob:       "Failed to fetch job",
	OpCreateJob:    "Failed to create job",
	OpUpdateJob:    "Failed to update job",
	OpJobEmail:     "Failed to send email",
	OpJobHistory:   "Failed to fetch job history",
	OpAcceptJob:    "Failed to accept job",
	OpDistanceFeed: "Failed to update records",
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store            StoreFactory
	adminRoleID      string
	superAdminRoleID string
	logger           *slog.Logger
	metrics          *observability.BookingMetrics
}

// Option configures Handlers.
type Option func(*Handlers)

// WithRoles sets the role IDs treated as administrators. Empty IDs match nobody.
func WithRoles(adminRoleID, superAdminRoleID string) Option {
	return func(h *Handlers) {
		h.adminRoleID = adminRoleID
		h.superAdminRoleID = superAdminRoleID
	}
}

// WithLogger sets the base logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) { h.logger = l }
}

// WithMetrics enables per-operation request counting.
func WithMetrics(m *observability.BookingMetrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// New creates a new Handlers instance with the given store dependency.
func New(s StoreFactory, opts ...Option) *Handlers {
	h := &Handlers{store: s, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{Error: message})
}

// fail answers err for operation op. Validation, authorization and
// not-found errors carry their own message; anything else is logged and
// answered 500 with the operation's fixed message.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindUnexpected {
		h.httpError(w, appErr.Message, apperr.StatusCode(appErr.Kind))
		return
	}

	logger.FromContext(r.Context(), h.logger).Error("request failed",
		"operation", op,
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	h.httpError(w, failMessage(op), http.StatusInternalServerError)
}

func failMessage(op string) string {
	if msg, ok := failMessages[op]; ok {
		return msg
	}
	return defaultFailText
}

// isAdminOrSuperAdmin reports whether user holds one of the configured
// administrator roles.
func (h *Handlers) isAdminOrSuperAdmin(user *store.User) bool {
	if user == nil || user.UserType == "" {
		return false
	}
	return user.UserType == h.adminRoleID || user.UserType == h.superAdminRoleID
}
