package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"social-studio/internal/adapter/tui/theme"
)

// ActivityEvent is one tool-invocation record shown in the activity pane.
type ActivityEvent struct {
	Tool    string
	Status  string // "started", "completed", "error"
	Message string
}

// ActivityPane displays the agent's tool activity and its reasoning stream
// in a scrollable side pane. Events arrive as an append-only log; the pane
// derives a latest-status-per-tool view at render time.
type ActivityPane struct {
	Viewport viewport.Model

	events             []ActivityEvent
	dropped            int
	reasoning          string
	reasoningTruncated bool

	ready  bool
	width  int
	height int
}

// NewActivityPane creates an activity pane.
func NewActivityPane() ActivityPane {
	return ActivityPane{}
}

// SetSize sets the pane dimensions.
func (m *ActivityPane) SetSize(w, h int) {
	m.width = w
	m.height = h
	if !m.ready {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.ready = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = h
	}
	m.refreshContent()
}

// SetEvents replaces the event log. dropped is the count of older events the
// session discarded to stay within its cap.
func (m *ActivityPane) SetEvents(events []ActivityEvent, dropped int) {
	m.events = events
	m.dropped = dropped
	m.refreshContent()
}

// SetReasoning replaces the reasoning transcript shown below the activity list.
func (m *ActivityPane) SetReasoning(text string, truncated bool) {
	m.reasoning = text
	m.reasoningTruncated = truncated
	m.refreshContent()
}

// Clear resets the pane for a new session.
func (m *ActivityPane) Clear() {
	m.events = nil
	m.dropped = 0
	m.reasoning = ""
	m.reasoningTruncated = false
	m.refreshContent()
}

// Update handles viewport scrolling.
func (m ActivityPane) Update(msg tea.Msg) (ActivityPane, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View renders the activity pane.
func (m ActivityPane) View() string {
	if !m.ready {
		return ""
	}

	header := theme.Bold.Render(" Activity")
	return header + "\n" + m.Viewport.View()
}

// toolRow is the derived latest state of one tool, in order of first use.
type toolRow struct {
	tool    string
	status  string
	message string
	updates int
}

func deriveToolRows(events []ActivityEvent) []toolRow {
	var rows []toolRow
	index := make(map[string]int)
	for _, ev := range events {
		i, seen := index[ev.Tool]
		if !seen {
			index[ev.Tool] = len(rows)
			rows = append(rows, toolRow{tool: ev.Tool, status: ev.Status, message: ev.Message, updates: 1})
			continue
		}
		rows[i].status = ev.Status
		if ev.Message != "" {
			rows[i].message = ev.Message
		}
		rows[i].updates++
	}
	return rows
}

func (m *ActivityPane) refreshContent() {
	if !m.ready {
		return
	}

	if len(m.events) == 0 && m.reasoning == "" {
		m.Viewport.SetContent(theme.TextMuted.Render("  Waiting for the agent to start"))
		return
	}

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var sb strings.Builder

	if m.dropped > 0 {
		sb.WriteString(theme.TextMuted.Render(fmt.Sprintf("  (%d older events dropped)", m.dropped)) + "\n")
	}

	for _, row := range deriveToolRows(m.events) {
		var statusIcon string
		switch row.status {
		case "started":
			statusIcon = theme.TextInfo.Render(theme.SymbolSpinner)
		case "completed":
			statusIcon = theme.TextSuccess.Render(theme.SymbolSuccess)
		case "error":
			statusIcon = theme.TextError.Render(theme.SymbolError)
		default:
			statusIcon = theme.TextMuted.Render(theme.SymbolInfo)
		}

		name := row.tool
		if len(name) > contentWidth-6 {
			name = name[:contentWidth-7] + theme.SymbolEllipsis
		}
		sb.WriteString(fmt.Sprintf("  %s %s", statusIcon, theme.Bold.Render(name)))
		if row.updates > 1 {
			sb.WriteString(theme.TextMuted.Render(fmt.Sprintf(" (%d updates)", row.updates)))
		}
		sb.WriteString("\n")

		if row.message != "" {
			for _, line := range strings.Split(wrapText(row.message, contentWidth-4), "\n") {
				sb.WriteString("    " + theme.TextMuted.Render(strings.TrimSpace(line)) + "\n")
			}
		}
	}

	if m.reasoning != "" {
		if len(m.events) > 0 {
			sb.WriteString("\n" + Divider(m.width-2) + "\n")
		}
		sb.WriteString("  " + theme.Bold.Render("Reasoning") + "\n")
		if m.reasoningTruncated {
			sb.WriteString(theme.TextMuted.Render("  (earlier reasoning trimmed)") + "\n")
		}
		sb.WriteString("  " + wrapText(m.reasoning, contentWidth) + "\n")
	}

	m.Viewport.SetContent(sb.String())
	m.Viewport.GotoBottom()
}
