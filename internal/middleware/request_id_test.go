package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		requestID     string
		traceID       string
		wantGenerated bool
		wantTrace     string
	}{
		{name: "generates request id", wantGenerated: true},
		{name: "keeps client request id", requestID: "req-123"},
		{name: "propagates trace id", traceID: "01HZX3K5V7Q8R9S0T1U2V3W4X5", wantGenerated: true, wantTrace: "01HZX3K5V7Q8R9S0T1U2V3W4X5"},
		{name: "drops oversized ids", requestID: strings.Repeat("a", 200), traceID: strings.Repeat("b", 200), wantGenerated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotRequestID, gotTraceID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRequestID = GetRequestID(r.Context())
				gotTraceID = GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			if tt.traceID != "" {
				req.Header.Set(TraceIDHeader, tt.traceID)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if tt.wantGenerated {
				if _, err := uuid.Parse(gotRequestID); err != nil {
					t.Errorf("expected generated UUID, got %q", gotRequestID)
				}
			} else if gotRequestID != tt.requestID {
				t.Errorf("request id = %q, want %q", gotRequestID, tt.requestID)
			}

			if rec.Header().Get(RequestIDHeader) != gotRequestID {
				t.Errorf("response header %q does not match context %q", rec.Header().Get(RequestIDHeader), gotRequestID)
			}
			if gotTraceID != tt.wantTrace {
				t.Errorf("trace id = %q, want %q", gotTraceID, tt.wantTrace)
			}
			if rec.Header().Get(TraceIDHeader) != tt.wantTrace {
				t.Errorf("trace header = %q, want %q", rec.Header().Get(TraceIDHeader), tt.wantTrace)
			}
		})
	}
}
