package agent

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-studio/internal/domain"
	"social-studio/internal/infra/config"
)

func TestEvaluate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/evaluate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"relevance":4.0,"relevance_reason":"on topic",
			"coherence":5.0,"coherence_reason":"flows well",
			"fluency":4.0,"fluency_reason":"clean prose",
			"groundedness":3.0,"groundedness_reason":"partly sourced"}`)
	}))

	scores, err := client.Evaluate(context.Background(), domain.EvaluationRequest{
		Query:    "write a launch post",
		Response: "Introducing our new product...",
		Context:  "brand guidelines",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if scores.Relevance != 4.0 {
		t.Errorf("relevance = %v", scores.Relevance)
	}
	if scores.Coherence != 5.0 {
		t.Errorf("coherence = %v", scores.Coherence)
	}
	if scores.GroundednessReason != "partly sourced" {
		t.Errorf("groundedness reason = %q", scores.GroundednessReason)
	}
}

func TestEvaluateMissingFields(t *testing.T) {
	client := newTestClientNoServer()
	_, err := client.Evaluate(context.Background(), domain.EvaluationRequest{Query: "q"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluateNotConfigured(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
		io.WriteString(w, `{"error":"Evaluation not configured","hint":"Install azure-ai-evaluation"}`)
	}))

	_, err := client.Evaluate(context.Background(), domain.EvaluationRequest{
		Query:    "q",
		Response: "r",
	})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestEvaluateBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"evaluator exploded"}`)
	}))
	t.Cleanup(server.Close)

	client := New(config.BackendConfig{
		BaseURL: server.URL,
		Breaker: config.BreakerConfig{MaxFailures: 2},
	}, newTestLogger())

	req := domain.EvaluationRequest{Query: "q", Response: "r"}

	for i := 0; i < 2; i++ {
		if _, err := client.Evaluate(context.Background(), req); err == nil {
			t.Fatalf("call %d should have failed", i)
		}
	}

	// Circuit is open now; the next call must fail fast without a request.
	before := calls
	_, err := client.Evaluate(context.Background(), req)
	if !errors.Is(err, domain.ErrEvaluatorDown) {
		t.Fatalf("expected ErrEvaluatorDown, got %v", err)
	}
	if calls != before {
		t.Errorf("open circuit still reached the server (%d calls)", calls-before)
	}
}

func TestEvaluateInvalidInputDoesNotTripBreaker(t *testing.T) {
	client := New(config.BackendConfig{
		BaseURL: "http://localhost:1",
		Breaker: config.BreakerConfig{MaxFailures: 2},
	}, newTestLogger())

	// Validation failures short-circuit before the breaker sees them.
	for i := 0; i < 5; i++ {
		_, err := client.Evaluate(context.Background(), domain.EvaluationRequest{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
}
