package usecase

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"social-studio/internal/domain"
)

func TestInferPhasesInitial(t *testing.T) {
	phases := InferPhases("", 0, false, true)

	if phases[domain.PhaseAnalysis] != domain.PhaseActive {
		t.Errorf("expected analysis active at start, got %v", phases[domain.PhaseAnalysis])
	}
	if phases[domain.PhaseCreation] != domain.PhasePending || phases[domain.PhaseReflection] != domain.PhasePending {
		t.Errorf("expected creation and reflection pending, got %v", phases)
	}
}

func TestInferPhasesKeywords(t *testing.T) {
	tests := []struct {
		name       string
		reasoning  string
		toolEvents int
		wantActive int
	}{
		{
			name:       "analysis vocabulary",
			reasoning:  "Analyzing the target audience and key messages for this topic.",
			wantActive: domain.PhaseAnalysis,
		},
		{
			name:       "creation vocabulary",
			reasoning:  "Audience identified. Now drafting the LinkedIn post.",
			wantActive: domain.PhaseCreation,
		},
		{
			name:       "tool event lifts creation without text evidence",
			reasoning:  "",
			toolEvents: 1,
			wantActive: domain.PhaseCreation,
		},
		{
			name:       "reflection vocabulary",
			reasoning:  "Posts drafted. Reviewing quality and scoring each variant.",
			wantActive: domain.PhaseReflection,
		},
		{
			name:       "reflection outranks creation in the same window",
			reasoning:  "Drafting done, now reviewing the draft for quality.",
			wantActive: domain.PhaseReflection,
		},
		{
			name:       "case insensitive",
			reasoning:  "ANALYZING AUDIENCE",
			wantActive: domain.PhaseAnalysis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := InferPhases(tt.reasoning, tt.toolEvents, false, true)
			if got := phases.Active(); got != tt.wantActive {
				t.Errorf("active phase = %d, want %d (%v)", got, tt.wantActive, phases)
			}
			for i := 0; i < tt.wantActive; i++ {
				if phases[i] != domain.PhaseCompleted {
					t.Errorf("phase %d = %v, want completed", i, phases[i])
				}
			}
		})
	}
}

func TestInferPhasesReachedOutlastsNeutralTail(t *testing.T) {
	// Reflection evidence scrolls out of the tail window; reached
	// evidence over the full text must keep progress from regressing.
	reasoning := "Reviewing quality of all drafts. " + strings.Repeat("x", 600)

	phases := InferPhases(reasoning, 0, false, true)
	if got := phases.Active(); got != domain.PhaseReflection {
		t.Errorf("active phase = %d, want reflection (%v)", got, phases)
	}
}

func TestInferPhasesMultibyteTail(t *testing.T) {
	// The tail window is measured in runes; multi-byte text must not
	// push recent evidence out of it.
	reasoning := strings.Repeat("あ", 450) + " drafting the post"

	phases := InferPhases(reasoning, 0, false, true)
	if got := phases.Active(); got != domain.PhaseCreation {
		t.Errorf("active phase = %d, want creation (%v)", got, phases)
	}
}

func TestInferPhasesTerminalWithContent(t *testing.T) {
	// Once the session ends with content, evidence is irrelevant.
	for _, reasoning := range []string{"", "analyzing", "no keywords here"} {
		phases := InferPhases(reasoning, 0, true, false)
		if !phases.AllCompleted() {
			t.Errorf("reasoning %q: expected all completed, got %v", reasoning, phases)
		}
	}
}

func TestInferPhasesTerminalEmpty(t *testing.T) {
	phases := InferPhases("", 0, false, false)
	if !phases.AllPending() {
		t.Errorf("expected all pending, got %v", phases)
	}
}

func TestInferPhasesTerminalFrozen(t *testing.T) {
	// Ended without content but with partial evidence: progress freezes
	// where it was, nothing stays active.
	phases := InferPhases("drafting the post", 0, false, false)

	if phases[domain.PhaseAnalysis] != domain.PhaseCompleted || phases[domain.PhaseCreation] != domain.PhaseCompleted {
		t.Errorf("expected analysis and creation completed, got %v", phases)
	}
	if phases[domain.PhaseReflection] != domain.PhasePending {
		t.Errorf("expected reflection pending, got %v", phases)
	}
	if phases.Active() != -1 {
		t.Errorf("expected no active phase, got %v", phases)
	}
}

func TestInferPhasesAtMostOneActive(t *testing.T) {
	inputs := []string{
		"",
		"analyzing audience strategy",
		"drafting and reviewing at once",
		"searching, scoring, improving, polishing",
	}
	for _, reasoning := range inputs {
		phases := InferPhases(reasoning, 2, false, true)
		active := 0
		for _, s := range phases {
			if s == domain.PhaseActive {
				active++
			}
		}
		if active != 1 {
			t.Errorf("reasoning %q: %d active phases, want 1 (%v)", reasoning, active, phases)
		}
	}
}

// genReasoningSegment yields fragments of agent reasoning, some carrying
// phase vocabulary and some neutral.
func genReasoningSegment() gopter.Gen {
	return gen.OneConstOf(
		"analyzing the target audience. ",
		"planning key messages. ",
		"drafting the post body. ",
		"generating hashtags. ",
		"searching brand documents. ",
		"reviewing quality. ",
		"final score check. ",
		"the quick brown fox. ",
		"lorem ipsum dolor sit amet. ",
		"こんにちは世界。",
	)
}

func TestInferPhasesMonotonicWhileGrowing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("completed set never shrinks as reasoning grows", prop.ForAll(
		func(segments []string) bool {
			var text strings.Builder
			prevCompleted := -1
			prevActive := -1
			for _, seg := range segments {
				text.WriteString(seg)
				phases := InferPhases(text.String(), 0, false, true)

				if phases.CompletedCount() < prevCompleted {
					return false
				}
				if phases.Active() < prevActive {
					return false
				}
				// Completed phases must form a prefix before the
				// active one.
				for i := 0; i < phases.Active(); i++ {
					if phases[i] != domain.PhaseCompleted {
						return false
					}
				}
				prevCompleted = phases.CompletedCount()
				prevActive = phases.Active()
			}
			return true
		},
		gen.SliceOf(genReasoningSegment()),
	))

	properties.TestingRun(t)
}
