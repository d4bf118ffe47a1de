package agent

import (
	"encoding/json"
	"strings"

	"social-studio/internal/domain"
)

// frameEnvelope is the union of every JSON frame shape the backend emits
// on the generation stream. Classification happens on the decoded fields;
// unknown keys are ignored.
type frameEnvelope struct {
	Type        string         `json:"type"`
	ThreadID    string         `json:"thread_id"`
	Error       string         `json:"error"`
	Message     string         `json:"message"`
	Reasoning   string         `json:"reasoning"`
	Summary     string         `json:"summary"`
	Platform    string         `json:"platform"`
	ImageBase64 string         `json:"image_base64"`
	Safety      *safetyPayload `json:"safety"`
	Choices     []frameChoice  `json:"choices"`
}

type frameChoice struct {
	Messages []frameMessage `json:"messages"`
}

type frameMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type safetyPayload struct {
	Safe              bool           `json:"safe"`
	Categories        map[string]int `json:"categories"`
	BlockedCategories []string       `json:"blocked_categories"`
}

type toolEventPayload struct {
	Tool      string `json:"tool"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

type imageDataPayload struct {
	Platform    string `json:"platform"`
	ImageBase64 string `json:"image_base64"`
}

// ParseFrame turns one complete stream frame into a StreamUpdate.
//
// Marker pairs are stripped first: tool events (malformed ones dropped,
// valid ones kept in order), reasoning snapshots (last one wins) and raw
// image payloads. The residual is then classified by envelope shape.
// A residual that is not valid JSON is a plain text delta, never an
// error: partial JSON mid-stream is the normal case.
func ParseFrame(raw string) domain.StreamUpdate {
	var update domain.StreamUpdate

	spans := splitMarkers(raw)
	for _, span := range spans {
		switch span.kind {
		case spanToolEvent:
			var payload toolEventPayload
			if err := json.Unmarshal([]byte(span.body), &payload); err != nil {
				continue
			}
			update.ToolEvents = append(update.ToolEvents, domain.ToolEvent{
				Tool:      payload.Tool,
				Status:    payload.Status,
				Timestamp: payload.Timestamp,
				Message:   payload.Message,
			})
		case spanReasoning:
			snapshot := span.body
			update.Reasoning = &snapshot
		case spanImageData:
			var payload imageDataPayload
			if err := json.Unmarshal([]byte(span.body), &payload); err != nil {
				continue
			}
			update.Image = &domain.ImageAttachment{
				Platform: strings.ToLower(strings.TrimSpace(payload.Platform)),
				Base64:   payload.ImageBase64,
			}
		}
	}

	residual := strings.TrimSpace(plainText(spans))
	if residual == "" {
		return update
	}

	var envelope frameEnvelope
	if err := json.Unmarshal([]byte(residual), &envelope); err != nil {
		update.Text = residual
		return update
	}

	switch {
	case envelope.Type == "done":
		update.Done = true
		update.ThreadID = envelope.ThreadID

	case envelope.Type == "image", envelope.Platform != "" && envelope.ImageBase64 != "":
		update.Image = &domain.ImageAttachment{
			Platform: strings.ToLower(strings.TrimSpace(envelope.Platform)),
			Base64:   envelope.ImageBase64,
		}

	case envelope.Type == "safety", envelope.Safety != nil:
		verdict := &domain.SafetyVerdict{Safe: true, Summary: envelope.Summary}
		if envelope.Safety != nil {
			verdict.Safe = envelope.Safety.Safe
			verdict.Categories = envelope.Safety.Categories
			verdict.BlockedCategories = envelope.Safety.BlockedCategories
		}
		update.Safety = verdict

	case envelope.Type == "reasoning_update":
		snapshot := envelope.Reasoning
		update.Reasoning = &snapshot

	case envelope.Type == "error":
		update.ErrorMessage = envelope.Message
		if update.ErrorMessage == "" {
			update.ErrorMessage = envelope.Error
		}
		if update.ErrorMessage == "" {
			update.ErrorMessage = "unknown stream error"
		}

	case envelope.Error != "":
		update.ErrorMessage = envelope.Error

	default:
		// Transcript frame. Content is the full accumulated assistant
		// text, not a delta; the session layer adopts it wholesale.
		if len(envelope.Choices) > 0 && len(envelope.Choices[0].Messages) > 0 {
			update.Text = envelope.Choices[0].Messages[0].Content
			update.TextCumulative = true
		}
		update.ThreadID = envelope.ThreadID
	}

	return update
}
