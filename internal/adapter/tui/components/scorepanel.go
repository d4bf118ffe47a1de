package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// ScoreEntry is one evaluation axis with its score and rationale.
type ScoreEntry struct {
	Label  string
	Value  float64 // 1-5
	Reason string
}

// RenderScorecard renders evaluation scores as a row of stat cards with the
// rationale lines underneath. errText, when non-empty, is the evaluator's
// partial-failure note.
func RenderScorecard(width int, entries []ScoreEntry, errText string) string {
	if len(entries) == 0 {
		return theme.TextMuted.Render("  No evaluation scores yet. Run /score after content resolves.")
	}

	cardW := (width-2)/len(entries) - 2
	if cardW < 14 {
		cardW = 14
	}

	var cards []string
	for _, e := range entries {
		value := theme.ScoreValue.Render(fmt.Sprintf("%.1f", e.Value)) + theme.TextMuted.Render("/5")
		label := theme.ScoreLabel.Render(e.Label)
		cards = append(cards, theme.ScoreCard.Width(cardW).Render(value+"\n"+label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	var sb strings.Builder
	sb.WriteString(row)

	reasonW := width - 6
	if reasonW < 30 {
		reasonW = 30
	}
	for _, e := range entries {
		if e.Reason == "" {
			continue
		}
		sb.WriteString("\n" + theme.Bold.Render("  "+e.Label+": ") + "\n  " + wrapText(e.Reason, reasonW))
	}

	if errText != "" {
		sb.WriteString("\n\n  " + theme.TextWarning.Render(theme.SymbolWarning+" "+errText))
	}

	return sb.String()
}
