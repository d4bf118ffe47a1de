package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"social-studio/internal/adapter/tui/theme"
)

// PhaseStepState is the display state of one pipeline phase.
type PhaseStepState int

const (
	PhaseStepPending PhaseStepState = iota
	PhaseStepActive
	PhaseStepCompleted
)

// PhaseStep is one phase of the generation pipeline.
type PhaseStep struct {
	Name  string
	State PhaseStepState
}

// PhaseBar displays pipeline progress as
// "✓ Analysis → ● Creation → ○ Reflection" with a progress bar.
// On narrow terminals the names collapse to numbered dots.
type PhaseBar struct {
	Steps []PhaseStep
	width int
}

// NewPhaseBar creates a phase bar with the given phase names, all pending.
func NewPhaseBar(names []string) PhaseBar {
	steps := make([]PhaseStep, len(names))
	for i, n := range names {
		steps[i] = PhaseStep{Name: n}
	}
	return PhaseBar{Steps: steps}
}

// SetWidth sets the rendering width.
func (m *PhaseBar) SetWidth(w int) {
	m.width = w
}

// SetStates updates all step states at once.
func (m *PhaseBar) SetStates(states []PhaseStepState) {
	for i := range m.Steps {
		if i < len(states) {
			m.Steps[i].State = states[i]
		}
	}
}

// Reset marks every step pending.
func (m *PhaseBar) Reset() {
	for i := range m.Steps {
		m.Steps[i].State = PhaseStepPending
	}
}

func (m PhaseBar) completed() int {
	n := 0
	for _, s := range m.Steps {
		if s.State == PhaseStepCompleted {
			n++
		}
	}
	return n
}

// View renders the phase bar as a single line.
func (m PhaseBar) View() string {
	if len(m.Steps) == 0 || m.width < 20 {
		return ""
	}

	collapse := m.width < theme.MinPhaseLabelWidth

	var segments []string
	for i, step := range m.Steps {
		var icon, label string
		switch step.State {
		case PhaseStepCompleted:
			icon = theme.PhaseDone.Render(theme.SymbolSuccess)
			label = theme.PhaseDone.Render(step.Name)
		case PhaseStepActive:
			icon = theme.PhaseActive.Render(theme.SymbolInfo)
			label = theme.PhaseActive.Render(step.Name)
		default:
			icon = theme.PhasePending.Render(theme.SymbolBullet)
			label = theme.PhasePending.Render(step.Name)
		}

		if collapse {
			segments = append(segments, icon+theme.TextMuted.Render(fmt.Sprintf("%d", i+1)))
		} else {
			segments = append(segments, icon+" "+label)
		}
	}
	left := " " + strings.Join(segments, " "+theme.TextMuted.Render(theme.SymbolArrowR)+" ")

	// Progress bar on the right.
	barWidth := 12
	if collapse {
		barWidth = 6
	}
	pct := float64(m.completed()) / float64(len(m.Steps))
	filled := int(pct * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))
	right := bar + theme.TextMuted.Render(fmt.Sprintf(" %d/%d", m.completed(), len(m.Steps))) + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
