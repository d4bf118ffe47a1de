package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-studio/internal/domain"
	"social-studio/internal/infra/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(config.BackendConfig{BaseURL: server.URL}, newTestLogger())
	return client, server
}

func TestMapHTTPError400(t *testing.T) {
	err := mapHTTPError(http.StatusBadRequest, []byte(`{"error":"Invalid request body"}`))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMapHTTPError404(t *testing.T) {
	err := mapHTTPError(http.StatusNotFound, []byte(`{"error":"Not found"}`))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMapHTTPError429(t *testing.T) {
	err := mapHTTPError(http.StatusTooManyRequests, []byte(`{"error":"rate limit exceeded"}`))
	if !errors.Is(err, domain.ErrRateLimit) {
		t.Errorf("expected ErrRateLimit, got %v", err)
	}
	if err.Error() == "" {
		t.Error("error message should not be empty")
	}
}

func TestMapHTTPError401(t *testing.T) {
	err := mapHTTPError(http.StatusUnauthorized, []byte(`{"error":"unauthorized"}`))
	if !errors.Is(err, domain.ErrAuthInvalid) {
		t.Errorf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestMapHTTPError501(t *testing.T) {
	err := mapHTTPError(http.StatusNotImplemented,
		[]byte(`{"error":"Evaluation not configured","hint":"Install azure-ai-evaluation"}`))
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if got := err.Error(); got == "" {
		t.Error("error message should not be empty")
	}
}

func TestMapHTTPError500(t *testing.T) {
	err := mapHTTPError(http.StatusInternalServerError, []byte(`boom`))
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"Not found"}`, "Not found"},
		{"error with hint", `{"error":"nope","hint":"try later"}`, "nope (try later)"},
		{"fastapi detail", `{"detail":"validation error"}`, `"validation error"`},
		{"raw body", `gateway timeout`, "gateway timeout"},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("apiErrorDetail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"healthy","service":"social-studio","version":"1.0.0",`+
			`"observability":"opentelemetry","content_safety":"enabled"}`)
	}))

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("status = %q", status.Status)
	}
	if status.ContentSafety != "enabled" {
		t.Errorf("content safety = %q", status.ContentSafety)
	}
}

func TestHealthBackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := New(config.BackendConfig{BaseURL: server.URL}, newTestLogger())
	_, err := client.Health(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestCheckSafety(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/safety" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"safe":true,"categories":{"Hate":0,"Violence":0},`+
			`"blocked_categories":[],"summary":"All categories clear"}`)
	}))

	verdict, err := client.CheckSafety(context.Background(), domain.SafetyRequest{Text: "hello world"})
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if !verdict.Safe {
		t.Error("expected safe verdict")
	}
	if verdict.Summary != "All categories clear" {
		t.Errorf("summary = %q", verdict.Summary)
	}
}

func TestCheckSafetyEmptyText(t *testing.T) {
	client := New(config.BackendConfig{BaseURL: "http://localhost:1"}, newTestLogger())
	_, err := client.CheckSafety(context.Background(), domain.SafetyRequest{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	client := New(config.BackendConfig{BaseURL: "http://example.com/"}, newTestLogger())
	if client.BaseURL() != "http://example.com" {
		t.Errorf("base url = %q", client.BaseURL())
	}
}
