package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"social-studio/internal/domain"
)

// CheckSafety runs a standalone moderation pass over text. The backend
// returns per-category severity levels plus a human-readable summary;
// when moderation is not configured server-side the call fails with an
// unavailable error carrying the backend's hint.
func (c *Client) CheckSafety(ctx context.Context, req domain.SafetyRequest) (*domain.SafetyVerdict, error) {
	const op = "Agent.CheckSafety"
	if req.Text == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "text is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, domain.WrapOp(op, fmt.Errorf("marshal request: %w", err))
	}

	respBody, err := c.doJSONRequest(ctx, http.MethodPost, "/api/safety", body)
	if err != nil {
		return nil, domain.WrapOp(op, err)
	}

	var payload struct {
		Safe              bool           `json:"safe"`
		Categories        map[string]int `json:"categories"`
		BlockedCategories []string       `json:"blocked_categories"`
		Summary           string         `json:"summary"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, domain.WrapOp(op, fmt.Errorf("unmarshal response: %w", err))
	}

	return &domain.SafetyVerdict{
		Safe:              payload.Safe,
		Categories:        payload.Categories,
		BlockedCategories: payload.BlockedCategories,
		Summary:           payload.Summary,
	}, nil
}
