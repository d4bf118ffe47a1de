package usecase

import (
	"strings"

	"social-studio/internal/domain"
)

// defaultPhaseTailWindow is how many trailing runes of reasoning text are
// inspected to decide which phase is running right now.
const defaultPhaseTailWindow = 480

// Keyword stems signalling each phase of the agent's generation process.
// Matching is case-insensitive substring search; stems deliberately catch
// inflections (analyz/analysis, creating/created, refine/refining).
var (
	analysisPatterns = []string{
		"analy", "strateg", "audience", "persona", "key message",
		"topic", "plan", "positioning",
	}
	creationPatterns = []string{
		"creat", "generat", "draft", "writ", "compos", "search", "hashtag",
	}
	reflectionPatterns = []string{
		"review", "reflect", "quality", "score", "evaluat", "improv",
		"refin", "polish",
	}
)

// InferPhases derives the three-phase progress display from the current
// reasoning transcript and tool activity. It is pure and recomputed from
// scratch on every flush. Reasoning snapshots replace the transcript
// wholesale, so evidence seen once can disappear from the inputs; the
// session keeps a high-water mark over activePhaseIndex so the displayed
// progress never walks backwards.
func InferPhases(reasoning string, toolEventCount int, hasContent, active bool) domain.PhaseSet {
	return inferPhasesWindow(reasoning, toolEventCount, hasContent, active, defaultPhaseTailWindow)
}

func inferPhasesWindow(reasoning string, toolEventCount int, hasContent, active bool, tailWindow int) domain.PhaseSet {
	evidence := reasoning != "" || toolEventCount > 0
	idx := activePhaseIndex(reasoning, toolEventCount, tailWindow)
	return phasesForIndex(idx, evidence, hasContent, active)
}

// phasesForIndex builds the display set from an active-phase index and the
// session's terminal flags.
func phasesForIndex(activeIdx int, hasEvidence, hasContent, active bool) domain.PhaseSet {
	var phases domain.PhaseSet

	// Terminal overrides: once the session stops, textual evidence no
	// longer matters.
	if !active {
		if hasContent {
			for i := range phases {
				phases[i] = domain.PhaseCompleted
			}
			return phases
		}
		if !hasEvidence {
			return phases // all pending
		}
		// Interrupted mid-stream with partial evidence: freeze progress
		// at the point reached, nothing stays "active".
		for i := 0; i <= activeIdx; i++ {
			phases[i] = domain.PhaseCompleted
		}
		return phases
	}

	for i := range phases {
		switch {
		case i < activeIdx:
			phases[i] = domain.PhaseCompleted
		case i == activeIdx:
			phases[i] = domain.PhaseActive
		default:
			phases[i] = domain.PhasePending
		}
	}
	return phases
}

// activePhaseIndex picks the currently running phase. The tail window
// approximates "now"; priority order favors the later stage when the tail
// is ambiguous. Reached phases (full-text evidence, or any tool having
// fired for creation) put a floor under the result so a sliding tail
// never walks progress backwards.
func activePhaseIndex(reasoning string, toolEventCount int, tailWindow int) int {
	lower := strings.ToLower(reasoning)

	reached := 0
	switch {
	case matchesAny(lower, reflectionPatterns):
		reached = domain.PhaseReflection
	case matchesAny(lower, creationPatterns) || toolEventCount > 0:
		reached = domain.PhaseCreation
	}

	tail := tailRunes(lower, tailWindow)
	tailIdx := domain.PhaseAnalysis
	switch {
	case matchesAny(tail, reflectionPatterns):
		tailIdx = domain.PhaseReflection
	case matchesAny(tail, creationPatterns):
		tailIdx = domain.PhaseCreation
	}

	if reached > tailIdx {
		return reached
	}
	return tailIdx
}

func matchesAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// tailRunes returns the last n runes of s without breaking multi-byte
// characters.
func tailRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
