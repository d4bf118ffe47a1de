package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// HistoryItem is one stored conversation shown in the history overlay.
type HistoryItem struct {
	ID        string
	Title     string
	UpdatedAt time.Time
}

// HistoryList is a full-screen overlay for browsing stored conversations.
// Enter resumes the selected conversation, d deletes it, Esc closes.
type HistoryList struct {
	Items    []HistoryItem
	Selected int
	Visible  bool
	width    int
	height   int
	top      int // first visible row for scrolling
}

// NewHistoryList creates a hidden history list.
func NewHistoryList() HistoryList {
	return HistoryList{}
}

// Open shows the overlay with the given items, newest first.
func (m *HistoryList) Open(items []HistoryItem) {
	m.Items = items
	m.Selected = 0
	m.top = 0
	m.Visible = true
}

// Close hides the overlay.
func (m *HistoryList) Close() {
	m.Visible = false
}

// SetSize updates the overlay dimensions.
func (m *HistoryList) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Remove deletes the item at index i from the list, clamping the selection.
func (m *HistoryList) Remove(i int) {
	if i < 0 || i >= len(m.Items) {
		return
	}
	m.Items = append(m.Items[:i], m.Items[i+1:]...)
	if m.Selected >= len(m.Items) && m.Selected > 0 {
		m.Selected--
	}
}

// RemoveByID deletes the item with the given conversation id, if present.
func (m *HistoryList) RemoveByID(id string) {
	for i, item := range m.Items {
		if item.ID == id {
			m.Remove(i)
			return
		}
	}
}

// SelectedItem returns the item under the cursor.
func (m HistoryList) SelectedItem() (HistoryItem, bool) {
	if !m.Visible || m.Selected < 0 || m.Selected >= len(m.Items) {
		return HistoryItem{}, false
	}
	return m.Items[m.Selected], true
}

// MoveUp moves the cursor up.
func (m *HistoryList) MoveUp() {
	if m.Selected > 0 {
		m.Selected--
	}
	if m.Selected < m.top {
		m.top = m.Selected
	}
}

// MoveDown moves the cursor down.
func (m *HistoryList) MoveDown() {
	if m.Selected < len(m.Items)-1 {
		m.Selected++
	}
	if m.Selected >= m.top+m.visibleRows() {
		m.top = m.Selected - m.visibleRows() + 1
	}
}

func (m HistoryList) visibleRows() int {
	rows := m.height - 6 // border, title, footer
	if rows < 3 {
		rows = 3
	}
	return rows
}

// View renders the overlay.
func (m HistoryList) View() string {
	if !m.Visible {
		return ""
	}

	titleBar := theme.Bold.Render("  Conversations")

	var body strings.Builder
	if len(m.Items) == 0 {
		body.WriteString(theme.TextMuted.Render("  No stored conversations."))
	} else {
		rowWidth := m.width - 8
		if rowWidth < 30 {
			rowWidth = 30
		}
		end := m.top + m.visibleRows()
		if end > len(m.Items) {
			end = len(m.Items)
		}
		for i := m.top; i < end; i++ {
			item := m.Items[i]
			ts := theme.Timestamp.Render(RelativeTime(item.UpdatedAt))
			title := item.Title
			if title == "" {
				title = item.ID
			}
			maxTitle := rowWidth - lipgloss.Width(ts) - 6
			if maxTitle > 0 && len(title) > maxTitle {
				title = title[:maxTitle-1] + theme.SymbolEllipsis
			}
			row := title + " " + ts
			if i == m.Selected {
				row = theme.TextInfo.Render(theme.SymbolArrowR+" ") + theme.Bold.Render(title) + " " + ts
			} else {
				row = "  " + row
			}
			body.WriteString(row + "\n")
		}
		if end < len(m.Items) {
			body.WriteString(theme.TextMuted.Render(fmt.Sprintf("  (%d more below)", len(m.Items)-end)))
		}
	}

	footer := theme.Dim.Render("  Enter: resume  d: delete  j/k: move  Esc: close")

	inner := lipgloss.JoinVertical(lipgloss.Left, titleBar, "", body.String(), footer)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorderActive).
		Padding(0, 1).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(inner)
}
