package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// ComposerMode selects what a submitted value means.
type ComposerMode int

const (
	// ComposerTopic submits a new generation topic or slash command.
	ComposerTopic ComposerMode = iota
	// ComposerEdit submits a manual rewrite of the selected card's body.
	ComposerEdit
	// ComposerRefine submits feedback for a targeted regeneration.
	ComposerRefine
)

// ComposerSubmitMsg is sent when the user presses Enter to submit input.
type ComposerSubmitMsg struct {
	Value  string
	Mode   ComposerMode
	Target string // platform key for edit/refine modes
}

// ComposerCancelMsg is sent when the user leaves edit/refine mode with Esc.
type ComposerCancelMsg struct {
	Mode   ComposerMode
	Target string
}

// Composer wraps a textarea with slash-command detection, autocomplete, and
// the edit/refine submission modes of the review workflow.
type Composer struct {
	Textarea     textarea.Model
	Autocomplete AutocompleteModel
	Enabled      bool

	mode   ComposerMode
	target string
	width  int
}

// NewComposer creates a composer with sensible defaults.
func NewComposer() Composer {
	ta := textarea.New()
	ta.Placeholder = "Describe a topic to generate content for..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0 // no limit
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.FocusedStyle.Placeholder = theme.InputPlaceholder
	ta.Focus()

	return Composer{
		Textarea: ta,
		Enabled:  true,
	}
}

// SetWidth updates the textarea width.
func (m *Composer) SetWidth(w int) {
	m.width = w
	m.Textarea.SetWidth(w - 2) // account for border/padding
	m.Autocomplete.SetWidth(w)
}

// SetEnabled enables or disables input (e.g. while a stream is active).
func (m *Composer) SetEnabled(enabled bool) {
	m.Enabled = enabled
	if enabled {
		m.Textarea.Focus()
	} else {
		m.Textarea.Blur()
	}
}

// Reset clears the input.
func (m *Composer) Reset() {
	m.Textarea.Reset()
}

// Value returns the current input text.
func (m Composer) Value() string {
	return m.Textarea.Value()
}

// Mode returns the active submission mode.
func (m Composer) Mode() ComposerMode { return m.mode }

// Target returns the platform key for edit/refine modes.
func (m Composer) Target() string { return m.target }

// EnterEdit switches to edit mode with the card body preloaded.
func (m *Composer) EnterEdit(target, body string) {
	m.mode = ComposerEdit
	m.target = target
	m.Textarea.SetValue(body)
	m.Textarea.CursorEnd()
	m.Textarea.Placeholder = "Edit the post body..."
	m.Autocomplete.Hide()
}

// EnterRefine switches to refine mode for the given platform.
func (m *Composer) EnterRefine(target string) {
	m.mode = ComposerRefine
	m.target = target
	m.Textarea.Reset()
	m.Textarea.Placeholder = "What should change about the " + target + " post?"
	m.Autocomplete.Hide()
}

// ExitMode returns to topic mode and clears the input.
func (m *Composer) ExitMode() {
	m.mode = ComposerTopic
	m.target = ""
	m.Textarea.Reset()
	m.Textarea.Placeholder = "Describe a topic to generate content for..."
}

// IsSlashCommand checks if the current input starts with a slash.
func (m Composer) IsSlashCommand() bool {
	return m.mode == ComposerTopic &&
		strings.HasPrefix(strings.TrimSpace(m.Textarea.Value()), "/")
}

// ParseSlashCommand extracts command and args from slash command input.
func ParseSlashCommand(input string) (cmd string, args []string, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	parts := strings.Fields(input)
	return strings.ToLower(parts[0]), parts[1:], true
}

// Update handles key events. Enter submits (Alt+Enter inserts a newline).
// When the autocomplete popup is visible, Tab/arrow keys navigate it.
func (m Composer) Update(msg tea.Msg) (Composer, tea.Cmd) {
	if !m.Enabled {
		return m, nil
	}

	// The textarea should never receive mouse events.
	if _, ok := msg.(tea.MouseMsg); ok {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// When autocomplete popup is showing, intercept navigation keys.
		if m.Autocomplete.Visible {
			switch keyMsg.Type {
			case tea.KeyTab, tea.KeyDown:
				m.Autocomplete.SelectNext()
				return m, nil
			case tea.KeyShiftTab, tea.KeyUp:
				m.Autocomplete.SelectPrev()
				return m, nil
			case tea.KeyEnter:
				// Accept the selected command into the textarea (don't submit yet).
				accepted := m.Autocomplete.Accept()
				if accepted != "" {
					m.Textarea.SetValue(accepted + " ")
					m.Textarea.CursorEnd()
				}
				return m, nil
			case tea.KeyEsc:
				m.Autocomplete.Hide()
				return m, nil
			}
		}

		switch keyMsg.Type {
		case tea.KeyEsc:
			if m.mode != ComposerTopic {
				mode, target := m.mode, m.target
				m.ExitMode()
				return m, func() tea.Msg {
					return ComposerCancelMsg{Mode: mode, Target: target}
				}
			}

		case tea.KeyEnter:
			// Plain Enter = submit. Alt+Enter handled by textarea as newline.
			value := strings.TrimSpace(m.Textarea.Value())
			if value != "" {
				mode, target := m.mode, m.target
				m.ExitMode()
				m.Autocomplete.Hide()
				return m, func() tea.Msg {
					return ComposerSubmitMsg{Value: value, Mode: mode, Target: target}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Textarea, cmd = m.Textarea.Update(msg)

	// Update autocomplete filter based on current input (topic mode only).
	value := m.Textarea.Value()
	if m.mode == ComposerTopic && strings.HasPrefix(value, "/") && !strings.Contains(value, " ") {
		m.Autocomplete.SetPrefix(value)
	} else {
		m.Autocomplete.Hide()
	}

	return m, cmd
}

// View renders the composer with an optional mode banner and autocomplete
// popup above it.
func (m Composer) View() string {
	var banner string
	switch m.mode {
	case ComposerEdit:
		banner = theme.TextInfo.Render("Editing "+m.target) +
			theme.Dim.Render("  Enter: save  Esc: cancel")
	case ComposerRefine:
		banner = theme.TextWarning.Render("Refining "+m.target) +
			theme.Dim.Render("  Enter: send feedback  Esc: cancel")
	}

	view := m.Textarea.View()
	if banner != "" {
		view = banner + "\n" + view
	}

	popup := m.Autocomplete.View()
	if popup != "" {
		return popup + "\n" + view
	}
	return view
}
