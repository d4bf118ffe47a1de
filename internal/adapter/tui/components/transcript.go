package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// EntryRole identifies the author of a transcript entry.
type EntryRole string

const (
	RoleUser   EntryRole = "user"
	RoleAgent  EntryRole = "agent"
	RoleSystem EntryRole = "system"
	RoleError  EntryRole = "error"
)

// TranscriptEntry is a single entry in the session transcript.
type TranscriptEntry struct {
	Role      EntryRole
	Content   string
	Rendered  string // cached glamour output; empty means not yet rendered
	Timestamp time.Time
	Streaming bool // entry is still being filled in by the agent
}

// TranscriptModel manages an ordered list of transcript entries with an
// optional ring buffer.
type TranscriptModel struct {
	Entries    []TranscriptEntry
	MaxEntries int // 0 = unlimited; positive = ring buffer cap
	trimCount  int // number of entries trimmed so far
	width      int
	mdRenderer *glamour.TermRenderer
}

// NewTranscript creates an empty transcript.
func NewTranscript() TranscriptModel {
	return TranscriptModel{}
}

// SetWidth updates the rendering width and clears cached renders.
func (m *TranscriptModel) SetWidth(w int) {
	if w == m.width {
		return
	}
	m.width = w
	m.mdRenderer = nil // force re-creation with new width
	for i := range m.Entries {
		m.Entries[i].Rendered = ""
	}
}

// SetMaxEntries sets the ring buffer capacity. 0 means unlimited.
func (m *TranscriptModel) SetMaxEntries(max int) {
	m.MaxEntries = max
}

// TrimmedIndicator returns a note if older entries were trimmed, empty otherwise.
func (m *TranscriptModel) TrimmedIndicator() string {
	if m.trimCount == 0 {
		return ""
	}
	return fmt.Sprintf("(%d older entries trimmed)", m.trimCount)
}

// Add appends an entry. If MaxEntries is set, trims oldest entries.
func (m *TranscriptModel) Add(entry TranscriptEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	m.Entries = append(m.Entries, entry)
	if m.MaxEntries > 0 && len(m.Entries) > m.MaxEntries {
		excess := len(m.Entries) - m.MaxEntries
		m.Entries = m.Entries[excess:]
		m.trimCount += excess
	}
}

// Clear removes all entries.
func (m *TranscriptModel) Clear() {
	m.Entries = nil
	m.trimCount = 0
}

// UpdateLast replaces the content of the last entry (for streaming).
func (m *TranscriptModel) UpdateLast(content string, streaming bool) {
	if len(m.Entries) == 0 {
		return
	}
	last := &m.Entries[len(m.Entries)-1]
	last.Content = content
	last.Streaming = streaming
	last.Rendered = "" // invalidate cache
}

// Settle clears the streaming flag on the last entry without touching its
// content, switching it to the cached markdown render path.
func (m *TranscriptModel) Settle() {
	if len(m.Entries) == 0 {
		return
	}
	last := &m.Entries[len(m.Entries)-1]
	if !last.Streaming {
		return
	}
	last.Streaming = false
	last.Rendered = ""
}

// View renders all entries as a single string.
func (m *TranscriptModel) View() string {
	if len(m.Entries) == 0 {
		return theme.TextMuted.Render("  No session yet. Describe a topic to generate content.")
	}

	contentWidth := m.width - 4 // padding
	if contentWidth > theme.MaxContentWidth {
		contentWidth = theme.MaxContentWidth
	}
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sb strings.Builder
	if indicator := m.TrimmedIndicator(); indicator != "" {
		sb.WriteString(theme.TextMuted.Render("  "+indicator) + "\n\n")
	}
	for i := range m.Entries {
		entry := &m.Entries[i]
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderEntry(entry, contentWidth))
	}
	return sb.String()
}

func (m *TranscriptModel) renderEntry(entry *TranscriptEntry, width int) string {
	label := m.roleLabel(entry.Role)
	ts := RelativeTime(entry.Timestamp)
	header := label + " " + theme.Timestamp.Render(ts)
	if entry.Streaming {
		header += " " + theme.TextInfo.Render(theme.SymbolSpinner)
	}
	headerWidth := lipgloss.Width(header)

	// Body: render markdown for agent entries, plain wrap for others.
	var body string
	switch entry.Role {
	case RoleAgent:
		if entry.Streaming {
			// Streaming text changes every flush; skip the markdown pass and
			// cache until the entry settles.
			body = wrapText(entry.Content, width-2)
		} else {
			if entry.Rendered == "" {
				entry.Rendered = m.renderMarkdown(entry.Content, width)
			}
			body = strings.TrimSpace(entry.Rendered)
		}
	case RoleError:
		body = theme.TextError.Render(wrapText(entry.Content, width-2))
	default:
		inlineW := width - headerWidth - 2
		if inlineW < 20 {
			inlineW = width - 2
		}
		body = wrapText(entry.Content, inlineW)
	}

	if body == "" {
		return header
	}

	if entry.Role == RoleAgent {
		return header + "\n" + body
	}

	// Inline: put header and first line of body on the same line.
	if width-headerWidth-2 < 20 {
		return header + "\n  " + body
	}

	lines := strings.SplitN(body, "\n", 2)
	firstLine := strings.TrimSpace(lines[0])
	result := header + "  " + firstLine
	if len(lines) > 1 {
		// wrapText already handles continuation indentation.
		result += "\n" + lines[1]
	}
	return result
}

func (m *TranscriptModel) roleLabel(role EntryRole) string {
	switch role {
	case RoleUser:
		return theme.UserLabel.Render(theme.SymbolUser)
	case RoleAgent:
		return theme.AgentLabel.Render(theme.SymbolAgent)
	case RoleSystem:
		return theme.SystemLabel.Render("System")
	case RoleError:
		return theme.ErrorLabel.Render(theme.SymbolError + " Error")
	default:
		return theme.TextMuted.Render(string(role))
	}
}

func (m *TranscriptModel) renderMarkdown(content string, width int) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "  " + content
		}
		m.mdRenderer = r
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return "  " + content
	}
	return rendered
}

// RelativeTime returns a human-readable relative time string.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		return fmt.Sprintf("%dm ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		return fmt.Sprintf("%dh ago", h)
	default:
		return t.Format("Jan 2 15:04")
	}
}

// wrapText wraps text to the given width with a 2-space indent on continuation
// lines. Uses rune-based indexing to safely handle multibyte UTF-8, which
// matters for bilingual Japanese/English content.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		runes := []rune(para)
		if len(runes) <= width {
			out = append(out, para)
			continue
		}
		for len(runes) > width {
			// Find a good break point (space) within width.
			idx := -1
			for i := width - 1; i > 0; i-- {
				if runes[i] == ' ' {
					idx = i
					break
				}
			}
			if idx <= 0 {
				idx = width
			}
			out = append(out, string(runes[:idx]))
			runes = runes[idx:]
			for len(runes) > 0 && runes[0] == ' ' {
				runes = runes[1:]
			}
		}
		if len(runes) > 0 {
			out = append(out, string(runes))
		}
	}
	return strings.Join(out, "\n  ")
}

// ContentWidth calculates the content width respecting MaxContentWidth.
func ContentWidth(termWidth int) int {
	w := termWidth - 4
	if w > theme.MaxContentWidth {
		w = theme.MaxContentWidth
	}
	if w < 40 {
		w = 40
	}
	return w
}

// Divider renders a horizontal line at the given width.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render(strings.Repeat("─", width))
}
