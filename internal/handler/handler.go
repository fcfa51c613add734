// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/policyscope/policyscope/internal/handler/dto"
	"github.com/policyscope/policyscope/internal/logging"
)

// Service identity reported by GET /.
const (
	ServiceMessage = "Insurance Database API"
	ServiceVersion = "1.0.0"
)

const infoPingTimeout = 5 * time.Second

// Handler serves the root and fallback endpoints.
type Handler struct {
	db     HealthChecker
	logger *slog.Logger
}

// New creates a new Handler instance.
// db may be nil, in which case the store is always reported unavailable.
func New(db HealthChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{db: db, logger: logger}
}

// Info reports the service identity and whether the store answers.
// Clients use it as a liveness probe, so it fails with 503 when the store
// cannot be reached even after a reconnect attempt.
// GET /
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	response := dto.InfoResponse{
		Message:  ServiceMessage,
		Version:  ServiceVersion,
		Database: dto.DatabaseConnected,
	}

	status := http.StatusOK
	if err := h.pingStore(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "store_unavailable", slog.String("error", logging.SanitizeError(err)))
		response.Database = dto.DatabaseUnavailable
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

func (h *Handler) pingStore(ctx context.Context) error {
	if h.db == nil {
		return errNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, infoPingTimeout)
	defer cancel()
	return h.db.Ping(ctx)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("response_encode_failed", slog.String("error", err.Error()))
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
