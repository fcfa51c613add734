// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/policyscope/policyscope/internal/logging"
	"github.com/policyscope/policyscope/internal/metrics"
	"github.com/policyscope/policyscope/internal/model"
)

// Service errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Input errors. Each wraps ErrInvalidInput.
var (
	ErrInvalidUserID  = fmt.Errorf("%w: user id must be a positive integer", ErrInvalidInput)
	ErrEmptyParameter = fmt.Errorf("%w: parameter must not be empty", ErrInvalidInput)
	ErrInvalidStatus  = fmt.Errorf("%w: invalid status", ErrInvalidInput)
	ErrInvalidType    = fmt.Errorf("%w: invalid policy type", ErrInvalidInput)
)

// Operation names used in logs and metrics.
const (
	OpGetUserByID         = "get_user_by_id"
	OpGetUserByEmail      = "get_user_by_email"
	OpSearchUsersByName   = "search_users_by_name"
	OpGetPolicyByNumber   = "get_policy_by_number"
	OpGetPoliciesByUser   = "get_policies_by_user"
	OpGetPoliciesByStatus = "get_policies_by_status"
	OpGetPoliciesByType   = "get_policies_by_type"
)

// Repository is the read surface of the store.
type Repository interface {
	GetUsersByID(ctx context.Context, id int64) ([]model.User, error)
	GetUsersByEmail(ctx context.Context, email string) ([]model.User, error)
	SearchUsersByName(ctx context.Context, name string) ([]model.User, error)
	GetPoliciesByNumber(ctx context.Context, number string) ([]model.Policy, error)
	GetPoliciesByUserID(ctx context.Context, userID int64) ([]model.Policy, error)
	GetPoliciesByStatus(ctx context.Context, status model.PolicyStatus) ([]model.Policy, error)
	GetPoliciesByType(ctx context.Context, policyType model.PolicyType) ([]model.Policy, error)
}

// QueryService validates lookups and runs them against the store.
//
// Every successful call returns a non-empty slice. An empty result and a
// store failure are both reported as ErrNotFound; store failures are logged
// with their cause first.
type QueryService struct {
	repo    Repository
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewQueryService creates a new QueryService.
func NewQueryService(repo Repository, logger *slog.Logger, recorder metrics.Recorder) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &QueryService{
		repo:    repo,
		logger:  logger,
		metrics: recorder,
	}
}

// GetUserByID returns the user with the given identifier.
func (s *QueryService) GetUserByID(ctx context.Context, id int64) ([]model.User, error) {
	if id <= 0 {
		return nil, s.reject(OpGetUserByID, ErrInvalidUserID)
	}
	return run(ctx, s, OpGetUserByID, func(ctx context.Context) ([]model.User, error) {
		return s.repo.GetUsersByID(ctx, id)
	})
}

// GetUserByEmail returns the user with the given email address.
func (s *QueryService) GetUserByEmail(ctx context.Context, email string) ([]model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, s.reject(OpGetUserByEmail, ErrEmptyParameter)
	}
	return run(ctx, s, OpGetUserByEmail, func(ctx context.Context) ([]model.User, error) {
		return s.repo.GetUsersByEmail(ctx, email)
	})
}

// SearchUsersByName returns users whose first or last name contains name.
func (s *QueryService) SearchUsersByName(ctx context.Context, name string) ([]model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, s.reject(OpSearchUsersByName, ErrEmptyParameter)
	}
	return run(ctx, s, OpSearchUsersByName, func(ctx context.Context) ([]model.User, error) {
		return s.repo.SearchUsersByName(ctx, name)
	})
}

// GetPolicyByNumber returns the policy with the given policy number.
func (s *QueryService) GetPolicyByNumber(ctx context.Context, number string) ([]model.Policy, error) {
	if strings.TrimSpace(number) == "" {
		return nil, s.reject(OpGetPolicyByNumber, ErrEmptyParameter)
	}
	return run(ctx, s, OpGetPolicyByNumber, func(ctx context.Context) ([]model.Policy, error) {
		return s.repo.GetPoliciesByNumber(ctx, number)
	})
}

// GetPoliciesByUser returns every policy owned by the given user.
func (s *QueryService) GetPoliciesByUser(ctx context.Context, userID int64) ([]model.Policy, error) {
	if userID <= 0 {
		return nil, s.reject(OpGetPoliciesByUser, ErrInvalidUserID)
	}
	return run(ctx, s, OpGetPoliciesByUser, func(ctx context.Context) ([]model.Policy, error) {
		return s.repo.GetPoliciesByUserID(ctx, userID)
	})
}

// GetPoliciesByStatus returns every policy with the given status.
// The status is checked before the store is touched.
func (s *QueryService) GetPoliciesByStatus(ctx context.Context, raw string) ([]model.Policy, error) {
	status, ok := model.ParsePolicyStatus(raw)
	if !ok {
		return nil, s.reject(OpGetPoliciesByStatus, ErrInvalidStatus)
	}
	return run(ctx, s, OpGetPoliciesByStatus, func(ctx context.Context) ([]model.Policy, error) {
		return s.repo.GetPoliciesByStatus(ctx, status)
	})
}

// GetPoliciesByType returns every policy of the given type.
// The type is checked before the store is touched.
func (s *QueryService) GetPoliciesByType(ctx context.Context, raw string) ([]model.Policy, error) {
	policyType, ok := model.ParsePolicyType(raw)
	if !ok {
		return nil, s.reject(OpGetPoliciesByType, ErrInvalidType)
	}
	return run(ctx, s, OpGetPoliciesByType, func(ctx context.Context) ([]model.Policy, error) {
		return s.repo.GetPoliciesByType(ctx, policyType)
	})
}

func (s *QueryService) reject(op string, err error) error {
	s.metrics.IncQuery(op, metrics.OutcomeInvalid)
	return err
}

// run executes fetch and folds empty results and store errors into ErrNotFound.
func run[T any](ctx context.Context, s *QueryService, op string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	start := time.Now()
	rows, err := fetch(ctx)
	s.metrics.ObserveQueryDuration(op, time.Since(start))

	if err != nil {
		s.metrics.IncQuery(op, metrics.OutcomeStoreError)
		s.logger.ErrorContext(ctx, "query_failed",
			slog.String("operation", op),
			slog.String("error", logging.SanitizeError(err)),
		)
		return nil, ErrNotFound
	}
	if len(rows) == 0 {
		s.metrics.IncQuery(op, metrics.OutcomeNotFound)
		return nil, ErrNotFound
	}

	s.metrics.IncQuery(op, metrics.OutcomeSuccess)
	return rows, nil
}
