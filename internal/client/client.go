// Package client is a typed HTTP client for the query service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/policyscope/policyscope/internal/handler/dto"
	"github.com/policyscope/policyscope/internal/middleware"
	"github.com/policyscope/policyscope/internal/model"
)

// maxResponseBytes caps how much of a response body is decoded.
const maxResponseBytes = 8 << 20

// Outcome classifies the result of a lookup.
type Outcome int

const (
	// OutcomeSuccess means rows were returned.
	OutcomeSuccess Outcome = iota
	// OutcomeNotFound means the query ran and matched nothing.
	OutcomeNotFound
	// OutcomeInvalid means the service rejected the parameter.
	OutcomeInvalid
	// OutcomeTransportError means the service could not be reached or
	// answered with something unexpected.
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one lookup. Exactly one of Users or Policies is
// populated on success; Message is set otherwise.
type Result struct {
	Outcome    Outcome
	StatusCode int
	Message    string
	Users      []model.User
	Policies   []model.Policy
}

// ErrUnavailable is returned by Ping when the service does not report a
// reachable store.
var ErrUnavailable = errors.New("query service unavailable")

// Client calls the query service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client for the service at baseURL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the service URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping probes the service root. It fails when the service is unreachable or
// reports the store as unavailable.
func (c *Client) Ping(ctx context.Context) (dto.InfoResponse, error) {
	var info dto.InfoResponse

	resp, err := c.do(ctx, "/")
	if err != nil {
		return info, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode != http.StatusOK {
		// Proxies in front of the service answer with non-JSON bodies.
		if json.NewDecoder(body).Decode(&info) == nil && info.Database != "" {
			return info, fmt.Errorf("%w: status %d, database %s", ErrUnavailable, resp.StatusCode, info.Database)
		}
		return info, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(body).Decode(&info); err != nil {
		return info, fmt.Errorf("%w: decode root response: %v", ErrUnavailable, err)
	}
	return info, nil
}

// GetUserByID looks up one user by identifier.
func (c *Client) GetUserByID(ctx context.Context, id int64) Result {
	return c.users(ctx, "/users/"+strconv.FormatInt(id, 10))
}

// GetUserByEmail looks up one user by email address.
func (c *Client) GetUserByEmail(ctx context.Context, email string) Result {
	return c.users(ctx, "/users/email/"+url.PathEscape(email))
}

// SearchUsersByName returns users whose first or last name contains name.
func (c *Client) SearchUsersByName(ctx context.Context, name string) Result {
	return c.users(ctx, "/users/search/"+url.PathEscape(name))
}

// GetPolicyByNumber looks up one policy by number.
func (c *Client) GetPolicyByNumber(ctx context.Context, number string) Result {
	return c.policies(ctx, "/policies/"+url.PathEscape(number))
}

// GetPoliciesByUser returns every policy owned by a user.
func (c *Client) GetPoliciesByUser(ctx context.Context, userID int64) Result {
	return c.policies(ctx, "/policies/user/"+strconv.FormatInt(userID, 10))
}

// GetPoliciesByStatus returns every policy with a status.
func (c *Client) GetPoliciesByStatus(ctx context.Context, status model.PolicyStatus) Result {
	return c.policies(ctx, "/policies/status/"+url.PathEscape(string(status)))
}

// GetPoliciesByType returns every policy of a type.
func (c *Client) GetPoliciesByType(ctx context.Context, policyType model.PolicyType) Result {
	return c.policies(ctx, "/policies/type/"+url.PathEscape(string(policyType)))
}

func (c *Client) users(ctx context.Context, path string) Result {
	rows, res := get[model.User](ctx, c, path)
	res.Users = rows
	return res
}

func (c *Client) policies(ctx context.Context, path string) Result {
	rows, res := get[model.Policy](ctx, c, path)
	res.Policies = rows
	return res
}

// get issues one request and classifies the response.
func get[T any](ctx context.Context, c *Client, path string) ([]T, Result) {
	resp, err := c.do(ctx, path)
	if err != nil {
		return nil, Result{
			Outcome: OutcomeTransportError,
			Message: "Connection error: " + transportCause(err),
		}
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseBytes)
	res := Result{StatusCode: resp.StatusCode}

	switch resp.StatusCode {
	case http.StatusOK:
		var rows []T
		if err := json.NewDecoder(body).Decode(&rows); err != nil {
			res.Outcome = OutcomeTransportError
			res.Message = "Connection error: invalid response: " + err.Error()
			return nil, res
		}
		if len(rows) == 0 {
			res.Outcome = OutcomeNotFound
			res.Message = "No data found"
			return nil, res
		}
		res.Outcome = OutcomeSuccess
		return rows, res
	case http.StatusNotFound:
		res.Outcome = OutcomeNotFound
		res.Message = "No data found"
	case http.StatusBadRequest:
		res.Outcome = OutcomeInvalid
		res.Message = errorMessage(body, resp.StatusCode)
	default:
		res.Outcome = OutcomeTransportError
		res.Message = fmt.Sprintf("API Error: %d", resp.StatusCode)
	}
	return nil, res
}

func (c *Client) do(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	traceID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.TraceIDHeader, traceID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "api_request_failed",
			slog.String("trace_id", traceID),
			slog.String("error", transportCause(err)),
		)
		return nil, err
	}

	c.logger.DebugContext(ctx, "api_request",
		slog.String("trace_id", traceID),
		slog.Int("status_code", resp.StatusCode),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)
	return resp, nil
}

// errorMessage prefers the service's own message for rejected input.
func errorMessage(body io.Reader, status int) string {
	var e dto.ErrorResponse
	if err := json.NewDecoder(body).Decode(&e); err == nil && e.Error != "" {
		return e.Error
	}
	return fmt.Sprintf("API Error: %d", status)
}

// transportCause drops the request URL from transport errors, since lookup
// values travel in the path.
func transportCause(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
