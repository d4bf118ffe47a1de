// Package studio implements the Bubble Tea TUI for the content studio.
package studio

import (
	"social-studio/internal/domain"
	"social-studio/internal/usecase"
)

// StreamEventMsg wraps a studio event injected from the event bridge.
// Event.Gen identifies the session generation so stale events from a
// superseded stream can be discarded.
type StreamEventMsg struct {
	Event usecase.Event
}

// SubmitResultMsg signals that a submission attempt finished opening its
// stream. Gen is the session generation on success, zero on failure.
type SubmitResultMsg struct {
	Gen uint64
	Err error
}

// QuitMsg signals the program to exit.
type QuitMsg struct{}

// HistoryLoadedMsg delivers the stored conversation list.
type HistoryLoadedMsg struct {
	Items []domain.ConversationSummary
	Err   error
}

// ConversationResumedMsg delivers a resumed conversation for transcript
// rebuild.
type ConversationResumedMsg struct {
	Conv *domain.Conversation
	Err  error
}

// ConversationDeletedMsg signals a stored conversation was deleted.
type ConversationDeletedMsg struct {
	ID  string
	Err error
}

// ScoresMsg delivers evaluation scores for the current output.
type ScoresMsg struct {
	Scores *domain.EvaluationScores
	Err    error
}

// SafetyMsg delivers an on-demand moderation verdict.
type SafetyMsg struct {
	Verdict *domain.SafetyVerdict
	Err     error
}

// HealthMsg delivers the backend readiness probe result.
type HealthMsg struct {
	Health *domain.HealthStatus
	Err    error
}

// DraftsLoadedMsg delivers the saved drafts list.
type DraftsLoadedMsg struct {
	Drafts []domain.Draft
	Err    error
}

// ApprovedSavedMsg signals approved items were written to the draft store.
type ApprovedSavedMsg struct {
	Count int
	Err   error
}

// DraftDeletedMsg signals one saved draft was removed.
type DraftDeletedMsg struct {
	ID  string
	Err error
}

// ExportedMsg delivers the path of a written export file.
type ExportedMsg struct {
	Path string
	Err  error
}
