package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"social-studio/internal/domain"
)

// Backend timestamps are ISO 8601 strings but may be absent or empty on
// older documents, so summaries are decoded through string DTOs and
// parsed leniently instead of unmarshaling straight into time.Time.
type conversationSummaryDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type conversationDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Messages  []messageDTO `json:"messages"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

type messageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ListConversations fetches all stored conversation summaries, most
// recently updated first (backend ordering is preserved).
func (c *Client) ListConversations(ctx context.Context) ([]domain.ConversationSummary, error) {
	const op = "Agent.ListConversations"

	body, err := c.doJSONRequest(ctx, http.MethodGet, "/api/conversations", nil)
	if err != nil {
		return nil, domain.WrapOp(op, err)
	}

	// The endpoint returns a bare JSON array, not an object wrapper.
	var dtos []conversationSummaryDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, domain.WrapOp(op, fmt.Errorf("unmarshal response: %w", err))
	}

	summaries := make([]domain.ConversationSummary, 0, len(dtos))
	for _, dto := range dtos {
		summaries = append(summaries, domain.ConversationSummary{
			ID:        dto.ID,
			Title:     dto.Title,
			CreatedAt: parseTimestamp(dto.CreatedAt),
			UpdatedAt: parseTimestamp(dto.UpdatedAt),
		})
	}
	return summaries, nil
}

// GetConversation fetches one conversation with its full message history.
func (c *Client) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	const op = "Agent.GetConversation"
	if id == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "conversation id is empty")
	}

	body, err := c.doJSONRequest(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(id), nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewSubSystemError("conversation", op, domain.ErrNotFound, id)
		}
		return nil, domain.WrapOp(op, err)
	}

	var dto conversationDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, domain.WrapOp(op, fmt.Errorf("unmarshal response: %w", err))
	}

	convo := &domain.Conversation{
		ID:        dto.ID,
		Title:     dto.Title,
		CreatedAt: parseTimestamp(dto.CreatedAt),
		UpdatedAt: parseTimestamp(dto.UpdatedAt),
		Messages:  make([]domain.ConversationMessage, 0, len(dto.Messages)),
	}
	for _, msg := range dto.Messages {
		convo.Messages = append(convo.Messages, domain.ConversationMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return convo, nil
}

// DeleteConversation removes one conversation by id.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	const op = "Agent.DeleteConversation"
	if id == "" {
		return domain.NewDomainError(op, domain.ErrInvalidInput, "conversation id is empty")
	}

	_, err := c.doJSONRequest(ctx, http.MethodDelete, "/api/conversations/"+url.PathEscape(id), nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewSubSystemError("conversation", op, domain.ErrNotFound, id)
		}
		return domain.WrapOp(op, err)
	}
	return nil
}

// parseTimestamp parses an ISO 8601 timestamp, returning the zero time
// for empty or unparseable input rather than failing the whole response.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
