package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "Enter"
	Desc string // e.g. "Generate"
}

// StatusBarModel renders a bottom status bar with keybinding hints on the
// left and session info (thread, backend) on the right.
type StatusBarModel struct {
	Hints   []KeyHint // show 4-5 most important hints
	Thread  string    // short form of the active thread ID
	Backend string    // backend host shown for orientation
	Extra   string    // transient status text (e.g. "Generating...")
	width   int
}

// NewStatusBar creates a status bar with no hints.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	// Left side: keybinding hints.
	var hints []string
	for _, h := range m.Hints {
		key := theme.StatusKey.Render(h.Key)
		hints = append(hints, key+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	// Right side: thread/backend info.
	var right string
	var parts []string
	if m.Thread != "" {
		parts = append(parts, "thread "+m.Thread)
	}
	if m.Backend != "" {
		parts = append(parts, m.Backend)
	}
	if len(parts) > 0 {
		right = theme.TextMuted.Render(strings.Join(parts, " "+theme.SymbolBullet+" "))
	}

	if m.Extra != "" {
		if right != "" {
			right += "  "
		}
		right += theme.TextInfo.Render(m.Extra)
	}

	// Join left and right, padding the gap.
	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := m.width - leftW - rightW
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(m.width).Render(bar)
}
