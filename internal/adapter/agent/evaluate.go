package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"social-studio/internal/domain"
	"social-studio/internal/infra/config"
)

// Default circuit breaker settings for the evaluation endpoint.
const (
	defaultBreakerMaxFailures uint32 = 3
	defaultBreakerTimeout            = 30 * time.Second
	defaultBreakerInterval           = 60 * time.Second
)

// Evaluate scores generated content on the backend's quality axes. Calls
// are routed through a circuit breaker: the evaluator is an optional
// backend feature that fails hard when unconfigured, and repeated
// failures should fail fast instead of stalling the review flow.
func (c *Client) Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.EvaluationScores, error) {
	const op = "Agent.Evaluate"
	if req.Query == "" || req.Response == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "query and response are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.WrapOp(op, fmt.Errorf("marshal request: %w", err))
	}

	scores, err := c.breaker.Execute(func() (domain.EvaluationScores, error) {
		respBody, reqErr := c.doJSONRequest(ctx, http.MethodPost, "/api/evaluate", body)
		if reqErr != nil {
			return domain.EvaluationScores{}, reqErr
		}
		var s domain.EvaluationScores
		if umErr := json.Unmarshal(respBody, &s); umErr != nil {
			return domain.EvaluationScores{}, fmt.Errorf("unmarshal response: %w", umErr)
		}
		return s, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.NewDomainError(op, domain.ErrEvaluatorDown, "circuit open: "+err.Error())
		}
		return nil, domain.WrapOp(op, err)
	}
	return &scores, nil
}

// BreakerState returns the evaluation circuit breaker state for
// monitoring and status display.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// newEvalBreaker builds the evaluation circuit breaker. Invalid-input
// rejections do not count as failures; only transport and backend faults
// trip the circuit.
func newEvalBreaker(cfg config.BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[domain.EvaluationScores] {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultBreakerTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultBreakerInterval
	}

	return gobreaker.NewCircuitBreaker[domain.EvaluationScores](gobreaker.Settings{
		Name:        "agent:evaluate",
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrInvalidInput)
		},
	})
}
