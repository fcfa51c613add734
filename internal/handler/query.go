package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/policyscope/policyscope/internal/service"
)

// Error codes returned by the query endpoints.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeInternal     = "INTERNAL_ERROR"
)

// QueryHandler handles the read endpoints for users and policies.
type QueryHandler struct {
	svc    *service.QueryService
	logger *slog.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(svc *service.QueryService, logger *slog.Logger) *QueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetUserByID handles GET /users/{user_id}.
func (h *QueryHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	users, err := h.svc.GetUserByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUserByEmail handles GET /users/email/{email}.
func (h *QueryHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.GetUserByEmail(r.Context(), pathParam(r, "email"))
	if err != nil {
		h.handleServiceError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SearchUsersByName handles GET /users/search/{name}.
func (h *QueryHandler) SearchUsersByName(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.SearchUsersByName(r.Context(), pathParam(r, "name"))
	if err != nil {
		h.handleServiceError(w, err, "No users found")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetPolicyByNumber handles GET /policies/{policy_number}.
func (h *QueryHandler) GetPolicyByNumber(w http.ResponseWriter, r *http.Request) {
	policies, err := h.svc.GetPolicyByNumber(r.Context(), pathParam(r, "policy_number"))
	if err != nil {
		h.handleServiceError(w, err, "Policy not found")
		return
	}
	writeJSON(w, http.StatusOK, policies)
}

// GetPoliciesByUser handles GET /policies/user/{user_id}.
func (h *QueryHandler) GetPoliciesByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	policies, err := h.svc.GetPoliciesByUser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "No policies found for this user")
		return
	}
	writeJSON(w, http.StatusOK, policies)
}

// GetPoliciesByStatus handles GET /policies/status/{status}.
func (h *QueryHandler) GetPoliciesByStatus(w http.ResponseWriter, r *http.Request) {
	policies, err := h.svc.GetPoliciesByStatus(r.Context(), pathParam(r, "status"))
	if err != nil {
		h.handleServiceError(w, err, "No policies found with this status")
		return
	}
	writeJSON(w, http.StatusOK, policies)
}

// GetPoliciesByType handles GET /policies/type/{policy_type}.
func (h *QueryHandler) GetPoliciesByType(w http.ResponseWriter, r *http.Request) {
	policies, err := h.svc.GetPoliciesByType(r.Context(), pathParam(r, "policy_type"))
	if err != nil {
		h.handleServiceError(w, err, "No policies found with this type")
		return
	}
	writeJSON(w, http.StatusOK, policies)
}

// userID parses the {user_id} path parameter, writing a 400 on failure.
func (h *QueryHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := pathParam(r, "user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "User ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// pathParam returns the decoded value of a chi URL parameter. chi matches
// on the raw path when the request carries escapes such as %2F, leaving the
// parameter escaped.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// handleServiceError maps service errors to HTTP responses.
func (h *QueryHandler) handleServiceError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, notFound)
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "Invalid status")
	case errors.Is(err, service.ErrInvalidType):
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "Invalid policy type")
	case errors.Is(err, service.ErrInvalidUserID):
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "User ID must be a positive integer")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "Parameter must not be empty")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "An internal error occurred")
	}
}
