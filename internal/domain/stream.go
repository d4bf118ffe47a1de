package domain

// Tool event statuses reported by the agent while it works.
const (
	ToolStatusStarted   = "started"
	ToolStatusCompleted = "completed"
	ToolStatusError     = "error"
)

// ToolEvent is one tool-invocation record extracted from the stream.
// Events for the same tool are never merged here; "latest status per tool"
// views are derived at render time from the append-only log.
type ToolEvent struct {
	Tool      string `json:"tool"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
}

// SafetyVerdict is the moderation result attached to a generation.
type SafetyVerdict struct {
	Safe              bool           `json:"safe"`
	Categories        map[string]int `json:"categories,omitempty"`
	BlockedCategories []string       `json:"blocked_categories,omitempty"`
	Summary           string         `json:"summary,omitempty"`
}

// ImageAttachment carries one generated visual, delivered out of band and
// merged into the resolved output by platform key.
type ImageAttachment struct {
	Platform string `json:"platform"`
	Base64   string `json:"image_base64"`
}

// StreamUpdate is the decoded result of one stream frame.
//
// Text carries characters for the cumulative output transcript. When
// TextCumulative is false the text is a raw fragment to append; when true it
// is the producer's full transcript so far (the backend re-sends accumulated
// assistant content in each content frame) and supersedes the prior buffer.
//
// Reasoning, when non-nil, replaces the reasoning transcript in full; a
// non-nil empty string clears it. Tool events are additive and may accompany
// any other payload kind.
type StreamUpdate struct {
	Text           string
	TextCumulative bool
	ToolEvents     []ToolEvent
	Reasoning      *string
	Done           bool
	ThreadID       string
	ErrorMessage   string
	Safety         *SafetyVerdict
	Image          *ImageAttachment
}

// IsZero reports whether the update carries no payload at all.
func (u StreamUpdate) IsZero() bool {
	return u.Text == "" &&
		len(u.ToolEvents) == 0 &&
		u.Reasoning == nil &&
		!u.Done &&
		u.ThreadID == "" &&
		u.ErrorMessage == "" &&
		u.Safety == nil &&
		u.Image == nil
}
