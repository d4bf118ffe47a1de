package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// TranscriptView wraps a viewport with smart auto-scroll behavior.
// Auto-scroll is active while the user is at the bottom, which is where a
// streaming response grows. If the user scrolls up to re-read something,
// auto-scroll pauses; it resumes when they return to the bottom.
type TranscriptView struct {
	Viewport viewport.Model
	Entries  TranscriptModel
	ready    bool
	atBottom bool
}

// NewTranscriptView creates a transcript view. The viewport is initialized
// lazily on the first WindowSizeMsg.
func NewTranscriptView() TranscriptView {
	return TranscriptView{
		Entries:  NewTranscript(),
		atBottom: true,
	}
}

// SetMaxEntries sets the ring buffer capacity for the transcript.
func (m *TranscriptView) SetMaxEntries(max int) {
	m.Entries.SetMaxEntries(max)
}

// SetSize sets the viewport dimensions and triggers content re-render.
func (m *TranscriptView) SetSize(w, h int) {
	m.Entries.SetWidth(w)
	if !m.ready {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.Viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = h
	}
	m.refreshContent()
}

// Add appends an entry and scrolls to bottom if auto-scroll is active.
func (m *TranscriptView) Add(entry TranscriptEntry) {
	m.Entries.Add(entry)
	m.refreshContent()
	if m.atBottom {
		m.Viewport.GotoBottom()
	}
}

// UpdateLast updates the last entry's content (for streaming).
func (m *TranscriptView) UpdateLast(content string, streaming bool) {
	m.Entries.UpdateLast(content, streaming)
	m.refreshContent()
	if m.atBottom {
		m.Viewport.GotoBottom()
	}
}

// Settle marks the last entry as no longer streaming.
func (m *TranscriptView) Settle() {
	m.Entries.Settle()
	m.refreshContent()
}

// Clear removes all entries and resets the viewport.
func (m *TranscriptView) Clear() {
	m.Entries.Clear()
	m.refreshContent()
	m.atBottom = true
	m.Viewport.GotoTop()
}

// Update handles viewport scrolling and tracks auto-scroll state.
func (m TranscriptView) Update(msg tea.Msg) (TranscriptView, tea.Cmd) {
	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)

	// Track whether user is at the bottom for smart auto-scroll.
	m.atBottom = m.Viewport.AtBottom()

	return m, cmd
}

// View renders the transcript viewport.
func (m TranscriptView) View() string {
	if !m.ready {
		return "  Initializing..."
	}
	return m.Viewport.View()
}

func (m *TranscriptView) refreshContent() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.Entries.View())
}
