package domain

import (
	"fmt"
	"slices"
)

// Reasoning effort levels accepted by the backend.
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Reasoning summary modes accepted by the backend.
const (
	SummaryOff      = "off"
	SummaryAuto     = "auto"
	SummaryConcise  = "concise"
	SummaryDetailed = "detailed"
)

// Bilingual rendering styles.
const (
	BilingualParallel = "parallel"
	BilingualCombined = "combined"
)

// Request languages.
const (
	LanguageEnglish  = "en"
	LanguageJapanese = "ja"
)

// DefaultContentType is the campaign type used when a request specifies none.
const DefaultContentType = "product_launch"

// GenerateRequest is the body of a content generation call. ThreadID links
// follow-up turns to an existing conversation; empty starts a new one.
type GenerateRequest struct {
	Message          string   `json:"message"`
	ThreadID         string   `json:"thread_id,omitempty"`
	Platforms        []string `json:"platforms"`
	ContentType      string   `json:"content_type"`
	Language         string   `json:"language"`
	ReasoningEffort  string   `json:"reasoning_effort"`
	ReasoningSummary string   `json:"reasoning_summary"`
	ABMode           bool     `json:"ab_mode,omitempty"`
	Bilingual        bool     `json:"bilingual,omitempty"`
	BilingualStyle   string   `json:"bilingual_style,omitempty"`
}

// Normalize fills unset fields with backend defaults.
func (r *GenerateRequest) Normalize() {
	if len(r.Platforms) == 0 {
		r.Platforms = slices.Clone(DefaultPlatforms)
	}
	if r.ContentType == "" {
		r.ContentType = DefaultContentType
	}
	if r.Language == "" {
		r.Language = LanguageEnglish
	}
	if r.ReasoningEffort == "" {
		r.ReasoningEffort = EffortMedium
	}
	if r.ReasoningSummary == "" {
		r.ReasoningSummary = SummaryAuto
	}
	if r.Bilingual && r.BilingualStyle == "" {
		r.BilingualStyle = BilingualParallel
	}
}

// Validate checks field values against the backend contract.
func (r *GenerateRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	for _, p := range r.Platforms {
		if p != PlatformLinkedIn && p != PlatformX && p != PlatformInstagram {
			return fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, p)
		}
	}
	switch r.ReasoningEffort {
	case EffortLow, EffortMedium, EffortHigh:
	default:
		return fmt.Errorf("%w: reasoning effort %q", ErrInvalidInput, r.ReasoningEffort)
	}
	switch r.ReasoningSummary {
	case SummaryOff, SummaryAuto, SummaryConcise, SummaryDetailed:
	default:
		return fmt.Errorf("%w: reasoning summary %q", ErrInvalidInput, r.ReasoningSummary)
	}
	if r.BilingualStyle != "" && r.BilingualStyle != BilingualParallel && r.BilingualStyle != BilingualCombined {
		return fmt.Errorf("%w: bilingual style %q", ErrInvalidInput, r.BilingualStyle)
	}
	return nil
}

// EvaluationRequest asks the backend to score a finished response.
type EvaluationRequest struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Context  string `json:"context,omitempty"`
}

// SafetyRequest asks the backend to moderate a piece of text.
type SafetyRequest struct {
	Text                 string `json:"text"`
	CheckPromptInjection bool   `json:"check_prompt_injection,omitempty"`
}

// EvaluationScores holds the four evaluation axes, each 1-5, with a short
// rationale per axis. Error is set instead when the evaluator is down.
type EvaluationScores struct {
	Relevance          float64 `json:"relevance"`
	RelevanceReason    string  `json:"relevance_reason"`
	Coherence          float64 `json:"coherence"`
	CoherenceReason    string  `json:"coherence_reason"`
	Fluency            float64 `json:"fluency"`
	FluencyReason      string  `json:"fluency_reason"`
	Groundedness       float64 `json:"groundedness"`
	GroundednessReason string  `json:"groundedness_reason"`
	Error              string  `json:"error,omitempty"`
}

// HealthStatus is the backend readiness probe result. ContentSafety is
// "enabled" when the backend has a moderation service configured.
type HealthStatus struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	ContentSafety string `json:"content_safety"`
}
