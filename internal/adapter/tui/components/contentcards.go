package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// CardStatus is the review state marker shown on a content card.
type CardStatus int

const (
	CardUnreviewed CardStatus = iota
	CardApproved
	CardEditing
	CardRefine
)

// ContentCard is one platform post rendered as a bordered card.
type ContentCard struct {
	Title        string // e.g. "LinkedIn" or "A · LinkedIn (ja)"
	Body         string
	Hashtags     []string
	CallToAction string
	PostingTime  string
	HasImage     bool
	Status       CardStatus
	StatusNote   string // e.g. pending feedback text for a refine request
}

// ContentCards displays resolved platform posts as a scrollable card list
// with a selection cursor for the review workflow.
type ContentCards struct {
	Viewport viewport.Model

	cards    []ContentCard
	headline string // variant strategy / review summary shown above the cards
	selected int
	offsets  []int // first line of each card in the rendered content

	ready  bool
	width  int
	height int
}

// NewContentCards creates an empty card list.
func NewContentCards() ContentCards {
	return ContentCards{}
}

// SetSize sets the pane dimensions.
func (m *ContentCards) SetSize(w, h int) {
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

// SetCards replaces the card list, clamping the selection.
func (m *ContentCards) SetCards(cards []ContentCard) {
	m.cards = cards
	if m.selected >= len(cards) {
		m.selected = 0
	}
	m.refreshContent()
}

// SetHeadline sets the text block shown above the cards.
func (m *ContentCards) SetHeadline(s string) {
	m.headline = s
	m.refreshContent()
}

// Count returns the number of cards.
func (m ContentCards) Count() int { return len(m.cards) }

// SelectedIndex returns the cursor position, or -1 when empty.
func (m ContentCards) SelectedIndex() int {
	if len(m.cards) == 0 {
		return -1
	}
	return m.selected
}

// MoveUp moves the cursor to the previous card.
func (m *ContentCards) MoveUp() {
	if m.selected > 0 {
		m.selected--
		m.refreshContent()
		m.scrollToSelected()
	}
}

// MoveDown moves the cursor to the next card.
func (m *ContentCards) MoveDown() {
	if m.selected < len(m.cards)-1 {
		m.selected++
		m.refreshContent()
		m.scrollToSelected()
	}
}

// Clear removes all cards.
func (m *ContentCards) Clear() {
	m.cards = nil
	m.headline = ""
	m.selected = 0
	m.refreshContent()
}

// Update handles viewport scrolling.
func (m ContentCards) Update(msg tea.Msg) (ContentCards, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View renders the card list.
func (m ContentCards) View() string {
	if !m.ready {
		return ""
	}
	return m.Viewport.View()
}

func (m *ContentCards) scrollToSelected() {
	if m.selected < 0 || m.selected >= len(m.offsets) {
		return
	}
	top := m.offsets[m.selected]
	if top < m.Viewport.YOffset {
		m.Viewport.SetYOffset(top)
		return
	}
	bottom := m.Viewport.TotalLineCount()
	if m.selected+1 < len(m.offsets) {
		bottom = m.offsets[m.selected+1]
	}
	if bottom > m.Viewport.YOffset+m.height {
		m.Viewport.SetYOffset(bottom - m.height)
	}
}

func statusMarker(status CardStatus) string {
	switch status {
	case CardApproved:
		return theme.ReviewApproved.Render(theme.SymbolSuccess + " approved")
	case CardEditing:
		return theme.TextInfo.Render("editing" + theme.SymbolEllipsis)
	case CardRefine:
		return theme.ReviewRefine.Render(theme.SymbolWarning + " refine requested")
	default:
		return theme.ReviewPending.Render("unreviewed")
	}
}

func (m *ContentCards) refreshContent() {
	if !m.ready {
		return
	}

	if len(m.cards) == 0 {
		m.offsets = nil
		m.Viewport.SetContent(theme.TextMuted.Render("  No structured content yet."))
		return
	}

	cardWidth := m.width - 4
	if cardWidth > theme.MaxContentWidth {
		cardWidth = theme.MaxContentWidth
	}
	if cardWidth < 30 {
		cardWidth = 30
	}
	innerWidth := cardWidth - 4 // border + padding

	var sb strings.Builder
	line := 0
	m.offsets = make([]int, len(m.cards))

	if m.headline != "" {
		head := wrapText(m.headline, cardWidth)
		sb.WriteString("  " + theme.TextAccent.Render(head) + "\n\n")
		line += strings.Count(head, "\n") + 2
	}

	for i, card := range m.cards {
		m.offsets[i] = line

		var body strings.Builder
		title := theme.CardTitle.Render(card.Title)
		marker := statusMarker(card.Status)
		gap := innerWidth - lipgloss.Width(title) - lipgloss.Width(marker)
		if gap < 1 {
			gap = 1
		}
		body.WriteString(title + strings.Repeat(" ", gap) + marker + "\n\n")
		body.WriteString(wrapText(card.Body, innerWidth))

		if len(card.Hashtags) > 0 {
			body.WriteString("\n\n" + theme.TextInfo.Render(wrapText(strings.Join(card.Hashtags, " "), innerWidth)))
		}
		if card.CallToAction != "" {
			body.WriteString("\n" + theme.TextMuted.Render("CTA: ") + wrapText(card.CallToAction, innerWidth-5))
		}

		var meta []string
		if card.PostingTime != "" {
			meta = append(meta, card.PostingTime)
		}
		if card.HasImage {
			meta = append(meta, "image attached")
		}
		if len(meta) > 0 {
			body.WriteString("\n" + theme.TextMuted.Render(strings.Join(meta, " "+theme.SymbolBullet+" ")))
		}
		if card.StatusNote != "" {
			body.WriteString("\n" + theme.ReviewRefine.Render(wrapText(card.StatusNote, innerWidth)))
		}

		border := theme.CardBorder
		if i == m.selected {
			border = theme.CardBorderSelected
		}
		rendered := border.Width(cardWidth).Render(body.String())
		sb.WriteString(rendered + "\n")
		line += strings.Count(rendered, "\n") + 2
	}

	m.Viewport.SetContent(sb.String())
}
