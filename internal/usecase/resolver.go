package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonschema"

	"social-studio/internal/domain"
)

// jsonFenceRe matches ```json fenced blocks embedded in streamed prose.
var jsonFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Structured payload schemas. Validation is deliberately shallow: it pins
// the discriminating shape (contents array / both variants) and the
// per-item essentials, and tolerates extra fields so prompt evolution on
// the backend does not break resolution.
const contentItemSchema = `{
	"type": "object",
	"required": ["platform", "body"],
	"properties": {
		"platform": {"type": "string", "minLength": 1},
		"body": {"type": "string"},
		"hashtags": {"type": "array", "items": {"type": "string"}},
		"call_to_action": {"type": "string"},
		"posting_time": {"type": "string"},
		"image_prompt": {"type": "string"},
		"language": {"type": "string"}
	}
}`

var singleSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["contents"],
	"properties": {
		"contents": {"type": "array", "minItems": 1, "items": ` + contentItemSchema + `},
		"review": {"type": "object"},
		"sources_used": {"type": "array", "items": {"type": "string"}}
	}
}`)

var comparisonSchema = mustCompileSchema(`{
	"type": "object",
	"required": ["variant_a", "variant_b"],
	"properties": {
		"variant_a": {
			"type": "object",
			"required": ["contents"],
			"properties": {"contents": {"type": "array", "items": ` + contentItemSchema + `}}
		},
		"variant_b": {
			"type": "object",
			"required": ["contents"],
			"properties": {"contents": {"type": "array", "items": ` + contentItemSchema + `}}
		}
	}
}`)

func mustCompileSchema(src string) *jsonschema.Schema {
	schema, err := jsonschema.NewCompiler().Compile([]byte(src))
	if err != nil {
		panic("usecase: bad embedded schema: " + err.Error())
	}
	return schema
}

// Resolve attempts to recover a structured payload from the cumulative
// stream text. It is pure: the same text always resolves to the same
// output. nil means "no valid payload yet", which during streaming is the
// normal case, never an error.
func Resolve(text string) *domain.ResolvedOutput {
	candidate := extractCandidate(text)
	// Anything not starting with an object brace is known-partial
	// streaming text; skip the parse attempt entirely.
	if !strings.HasPrefix(candidate, "{") {
		return nil
	}

	var probe struct {
		VariantA json.RawMessage `json:"variant_a"`
		VariantB json.RawMessage `json:"variant_b"`
		Contents json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil
	}

	var instance any
	if err := json.Unmarshal([]byte(candidate), &instance); err != nil {
		return nil
	}

	switch {
	case len(probe.VariantA) > 0 && len(probe.VariantB) > 0:
		if !comparisonSchema.Validate(instance).IsValid() {
			return nil
		}
		var out domain.ABContentOutput
		if err := json.Unmarshal([]byte(candidate), &out); err != nil {
			return nil
		}
		return &domain.ResolvedOutput{Kind: domain.OutputComparison, Comparison: &out}

	case len(probe.Contents) > 0:
		if !singleSchema.Validate(instance).IsValid() {
			return nil
		}
		var out domain.ContentOutput
		if err := json.Unmarshal([]byte(candidate), &out); err != nil {
			return nil
		}
		if len(out.Contents) == 0 {
			return nil
		}
		return &domain.ResolvedOutput{Kind: domain.OutputSingle, Single: &out}

	default:
		return nil
	}
}

// extractCandidate picks the text to parse: the last ```json fenced block
// when one exists (the agent restates drafts, the final fence wins),
// otherwise the trimmed full text.
func extractCandidate(text string) string {
	matches := jsonFenceRe.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		return strings.TrimSpace(matches[len(matches)-1][1])
	}
	return strings.TrimSpace(text)
}

// MergeImages returns a copy of out with generated images attached to
// their platform's content items. Platform matching is case-insensitive;
// items without a generated image are untouched, and an empty or
// non-matching map yields a deep-equal copy. out is never mutated.
func MergeImages(out *domain.ResolvedOutput, images map[string]string) *domain.ResolvedOutput {
	if out == nil {
		return nil
	}

	lowered := make(map[string]string, len(images))
	for platform, payload := range images {
		lowered[strings.ToLower(platform)] = payload
	}

	merged := &domain.ResolvedOutput{Kind: out.Kind}
	switch out.Kind {
	case domain.OutputSingle:
		if out.Single != nil {
			single := *out.Single
			single.Contents = mergeItems(out.Single.Contents, lowered)
			merged.Single = &single
		}
	case domain.OutputComparison:
		if out.Comparison != nil {
			comparison := *out.Comparison
			comparison.VariantA.Contents = mergeItems(out.Comparison.VariantA.Contents, lowered)
			comparison.VariantB.Contents = mergeItems(out.Comparison.VariantB.Contents, lowered)
			merged.Comparison = &comparison
		}
	}
	return merged
}

func mergeItems(items []domain.ContentItem, images map[string]string) []domain.ContentItem {
	if items == nil {
		return nil
	}
	out := make([]domain.ContentItem, len(items))
	copy(out, items)
	for i := range out {
		if payload, ok := images[strings.ToLower(out[i].Platform)]; ok {
			out[i].ImageBase64 = payload
		}
	}
	return out
}
