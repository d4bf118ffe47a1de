package studio

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"social-studio/internal/domain"
	"social-studio/internal/usecase"
)

// One-shot backend calls get bounded contexts so a dead backend cannot
// wedge the update loop's pending commands forever.
const (
	shortCallTimeout = 10 * time.Second
	evalCallTimeout  = 90 * time.Second
)

// submitCmd opens a new generation stream in a background goroutine.
// Opening blocks on the initial HTTP exchange; stream updates then arrive
// through the event bridge, not through this command.
func submitCmd(st *usecase.Studio, req domain.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		gen, err := st.Submit(req)
		return SubmitResultMsg{Gen: gen, Err: err}
	}
}

// retryCmd resubmits the last request unchanged.
func retryCmd(st *usecase.Studio) tea.Cmd {
	return func() tea.Msg {
		gen, err := st.Retry()
		return SubmitResultMsg{Gen: gen, Err: err}
	}
}

// refineCmd resubmits the last request with feedback targeted at one
// platform's post.
func refineCmd(st *usecase.Studio, platform, feedback string) tea.Cmd {
	return func() tea.Msg {
		gen, err := st.Refine(platform, feedback)
		return SubmitResultMsg{Gen: gen, Err: err}
	}
}

// historyCmd lists stored conversations.
func historyCmd(st *usecase.Studio) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		items, err := st.Conversations(ctx)
		return HistoryLoadedMsg{Items: items, Err: err}
	}
}

// resumeCmd fetches a stored conversation and makes it the active thread.
func resumeCmd(st *usecase.Studio, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		conv, err := st.Resume(ctx, id)
		return ConversationResumedMsg{Conv: conv, Err: err}
	}
}

// deleteConversationCmd removes a stored conversation.
func deleteConversationCmd(st *usecase.Studio, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		err := st.DeleteConversation(ctx, id)
		return ConversationDeletedMsg{ID: id, Err: err}
	}
}

// evaluateCmd scores the current output. Evaluation runs a judge model on
// the backend, so it gets the long timeout.
func evaluateCmd(st *usecase.Studio) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), evalCallTimeout)
		defer cancel()
		scores, err := st.EvaluateCurrent(ctx)
		return ScoresMsg{Scores: scores, Err: err}
	}
}

// safetyCmd moderates a piece of text on demand.
func safetyCmd(st *usecase.Studio, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		verdict, err := st.CheckSafety(ctx, text)
		return SafetyMsg{Verdict: verdict, Err: err}
	}
}

// healthCmd probes the backend.
func healthCmd(st *usecase.Studio) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		health, err := st.Health(ctx)
		return HealthMsg{Health: health, Err: err}
	}
}

// draftsCmd lists saved drafts.
func draftsCmd(st *usecase.Studio) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		drafts, err := st.Drafts(ctx)
		return DraftsLoadedMsg{Drafts: drafts, Err: err}
	}
}

// saveApprovedCmd persists every approved item to the draft store.
func saveApprovedCmd(st *usecase.Studio) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		count, err := st.SaveApproved(ctx)
		return ApprovedSavedMsg{Count: count, Err: err}
	}
}

// deleteDraftCmd removes one saved draft.
func deleteDraftCmd(st *usecase.Studio, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shortCallTimeout)
		defer cancel()
		err := st.DeleteDraft(ctx, id)
		return DraftDeletedMsg{ID: id, Err: err}
	}
}

// exportCmd writes the current output to the export directory.
func exportCmd(st *usecase.Studio, format usecase.ExportFormat) tea.Cmd {
	return func() tea.Msg {
		path, err := st.Export(format)
		return ExportedMsg{Path: path, Err: err}
	}
}
