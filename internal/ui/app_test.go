package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policyscope/policyscope/internal/client"
	"github.com/policyscope/policyscope/internal/handler/dto"
	"github.com/policyscope/policyscope/internal/model"
)

type fakeBackend struct {
	pingErr error
	result  client.Result
	calls   []string
}

func (f *fakeBackend) BaseURL() string { return "http://127.0.0.1:8000" }

func (f *fakeBackend) Ping(ctx context.Context) (dto.InfoResponse, error) {
	return dto.InfoResponse{}, f.pingErr
}

func (f *fakeBackend) record(call string) client.Result {
	f.calls = append(f.calls, call)
	return f.result
}

func (f *fakeBackend) GetUserByID(ctx context.Context, id int64) client.Result {
	return f.record("GetUserByID")
}

func (f *fakeBackend) GetUserByEmail(ctx context.Context, email string) client.Result {
	return f.record("GetUserByEmail:" + email)
}

func (f *fakeBackend) SearchUsersByName(ctx context.Context, name string) client.Result {
	return f.record("SearchUsersByName:" + name)
}

func (f *fakeBackend) GetPolicyByNumber(ctx context.Context, number string) client.Result {
	return f.record("GetPolicyByNumber:" + number)
}

func (f *fakeBackend) GetPoliciesByUser(ctx context.Context, userID int64) client.Result {
	return f.record("GetPoliciesByUser")
}

func (f *fakeBackend) GetPoliciesByStatus(ctx context.Context, status model.PolicyStatus) client.Result {
	return f.record("GetPoliciesByStatus:" + string(status))
}

func (f *fakeBackend) GetPoliciesByType(ctx context.Context, policyType model.PolicyType) client.Result {
	return f.record("GetPoliciesByType:" + string(policyType))
}

func serve(t *testing.T, b Backend, target string) *httptest.ResponseRecorder {
	t.Helper()

	app, err := New(b, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	require.NoError(t, err)

	r := chi.NewRouter()
	app.Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestIndex_DefaultPage(t *testing.T) {
	b := &fakeBackend{}
	rec := serve(t, b, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Connected to API server")
	assert.Contains(t, body, "Get User by ID")
	assert.Contains(t, body, `type="number"`)
	assert.NotContains(t, body, "<fieldset disabled>")
	assert.Empty(t, b.calls, "no query before submit")
}

func TestIndex_ProbeFailureDisablesForm(t *testing.T) {
	b := &fakeBackend{pingErr: errors.New("connection refused")}
	rec := serve(t, b, "/?kind=user_id&value=42&run=1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Cannot connect to API server")
	assert.Contains(t, body, "http://127.0.0.1:8000")
	assert.Contains(t, body, "go run ./cmd/api")
	assert.Contains(t, body, "<fieldset disabled>")
	assert.Contains(t, body, "Disconnected")
	assert.Empty(t, b.calls, "queries must not run while disconnected")
}

func TestIndex_UserResult(t *testing.T) {
	dob := model.NewDate(time.Date(1985, 12, 10, 0, 0, 0, 0, time.UTC))
	b := &fakeBackend{result: client.Result{
		Outcome: client.OutcomeSuccess,
		Users: []model.User{{
			UserID:        42,
			FirstName:     "Ada",
			LastName:      "Byron",
			Email:         "a@b.com",
			DateOfBirth:   &dob,
			City:          strPtr("London"),
			PolicyNumber:  "POL-001",
			PolicyType:    "Auto",
			PremiumAmount: floatPtr(1250.5),
		}},
	}}

	rec := serve(t, b, "/?kind=user_id&value=42&run=1&raw=1")
	body := rec.Body.String()

	assert.Equal(t, []string{"GetUserByID"}, b.calls)
	assert.Contains(t, body, "Ada Byron (ID: 42)")
	assert.Contains(t, body, "Personal Information")
	assert.Contains(t, body, "Policy Information")
	assert.Contains(t, body, "1985-12-10")
	assert.Contains(t, body, "London, N/A N/A")
	assert.Contains(t, body, "$1,250.50")
	assert.Contains(t, body, "<th>user_id</th><th>first_name</th>")
}

func TestIndex_PolicyResult(t *testing.T) {
	b := &fakeBackend{result: client.Result{
		Outcome: client.OutcomeSuccess,
		Policies: []model.Policy{{
			PolicyID:         9,
			UserID:           42,
			PolicyNumber:     "POL-009",
			PolicyType:       model.PolicyTypeHome,
			PolicyStatus:     model.PolicyStatusCancelled,
			PremiumAmount:    980,
			CoverageAmount:   floatPtr(250000),
			PolicyStartDate:  model.NewDate(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)),
			PaymentFrequency: "Annual",
		}},
	}}

	rec := serve(t, b, "/?kind=policies_status&value=Cancelled&run=1")
	body := rec.Body.String()

	assert.Equal(t, []string{"GetPoliciesByStatus:Cancelled"}, b.calls)
	assert.Contains(t, body, "Policy: POL-009 - Home")
	assert.Contains(t, body, "badge-cancelled")
	assert.Contains(t, body, "Policy Details")
	assert.Contains(t, body, "Dates &amp; Agent Info")
	assert.Contains(t, body, "$250,000.00")
	assert.Contains(t, body, "$980.00")
	assert.NotContains(t, body, "Description")
	assert.NotContains(t, body, "<table>", "raw table only when requested")
}

func TestIndex_NotFoundShowsWarningOnly(t *testing.T) {
	b := &fakeBackend{result: client.Result{Outcome: client.OutcomeNotFound, StatusCode: 404, Message: "No data found"}}

	rec := serve(t, b, "/?kind=policy_number&value=POL-000&run=1")
	body := rec.Body.String()

	assert.Equal(t, []string{"GetPolicyByNumber:POL-000"}, b.calls)
	assert.Contains(t, body, `alert-warning" role="alert">No data found`)
	assert.NotContains(t, body, `class="results"`)
}

func TestIndex_InvalidShowsWarning(t *testing.T) {
	b := &fakeBackend{result: client.Result{Outcome: client.OutcomeInvalid, StatusCode: 400, Message: "Invalid status"}}

	rec := serve(t, b, "/?kind=policies_status&value=Unknown&run=1")
	body := rec.Body.String()

	assert.Equal(t, []string{"GetPoliciesByStatus:Unknown"}, b.calls)
	assert.Contains(t, body, `alert-warning" role="alert">Invalid status`)
	assert.NotContains(t, body, `class="results"`)
}

func TestIndex_TransportErrorShowsError(t *testing.T) {
	b := &fakeBackend{result: client.Result{Outcome: client.OutcomeTransportError, Message: "Connection error: connection reset by peer"}}

	rec := serve(t, b, "/?kind=user_name&value=Ada&run=1")
	body := rec.Body.String()

	assert.Contains(t, body, `alert-error" role="alert">Connection error: connection reset by peer`)
	assert.NotContains(t, body, `class="results"`)
}

func TestIndex_EmptyInputNotSubmitted(t *testing.T) {
	tests := []string{
		"/?kind=user_email&value=&run=1",
		"/?kind=user_name&value=%20%20&run=1",
		"/?kind=user_id&value=0&run=1",
		"/?kind=policies_user&value=abc&run=1",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			b := &fakeBackend{}
			rec := serve(t, b, target)

			assert.Empty(t, b.calls)
			assert.Contains(t, rec.Body.String(), "alert-info")
		})
	}
}

func TestIndex_SelectKinds(t *testing.T) {
	rec := serve(t, &fakeBackend{}, "/?kind=policies_type")
	body := rec.Body.String()

	for _, pt := range model.AllPolicyTypes() {
		assert.Contains(t, body, `<option value="`+string(pt)+`"`)
	}
	assert.Contains(t, body, "Get Policies by Type")

	rec = serve(t, &fakeBackend{}, "/?kind=bogus")
	assert.Contains(t, rec.Body.String(), "Enter User ID:")
}

func TestStaticAndHealthz(t *testing.T) {
	rec := serve(t, &fakeBackend{pingErr: errors.New("down")}, "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css"))

	rec = serve(t, &fakeBackend{pingErr: errors.New("down")}, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
