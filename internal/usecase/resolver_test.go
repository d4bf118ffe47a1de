package usecase

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-studio/internal/domain"
)

const singlePayload = `{
	"contents": [
		{"platform": "x", "body": "hi", "hashtags": [], "call_to_action": "", "posting_time": ""}
	],
	"review": {"overall_score": 0, "scores": {}, "feedback": [], "improvements_made": []},
	"sources_used": []
}`

const comparisonPayload = `{
	"mode": "ab",
	"variant_a": {
		"strategy": "data-led",
		"contents": [{"platform": "linkedin", "body": "A body", "hashtags": ["ai"], "call_to_action": "Read", "posting_time": "9am"}],
		"review": {"overall_score": 8.1}
	},
	"variant_b": {
		"strategy": "story-led",
		"contents": [{"platform": "linkedin", "body": "B body", "hashtags": ["ml"], "call_to_action": "Join", "posting_time": "5pm"}],
		"review": {"overall_score": 7.4}
	},
	"sources_used": ["brand_guide.md"]
}`

func TestResolveSingleOutput(t *testing.T) {
	text := "Here is the final content:\n```json\n" + singlePayload + "\n```\nDone."

	out := Resolve(text)
	require.NotNil(t, out)
	assert.Equal(t, domain.OutputSingle, out.Kind)
	require.NotNil(t, out.Single)
	require.Len(t, out.Single.Contents, 1)
	assert.Equal(t, "x", out.Single.Contents[0].Platform)
	assert.Equal(t, "hi", out.Single.Contents[0].Body)
	assert.False(t, out.Single.Review.HasReview(), "overall_score 0 must suppress the review")
}

func TestResolveComparison(t *testing.T) {
	out := Resolve("```json\n" + comparisonPayload + "\n```")
	require.NotNil(t, out)
	assert.Equal(t, domain.OutputComparison, out.Kind)
	require.NotNil(t, out.Comparison)
	assert.Equal(t, "ab", out.Comparison.Mode)
	assert.Equal(t, "data-led", out.Comparison.VariantA.Strategy)
	require.Len(t, out.Comparison.VariantB.Contents, 1)
	assert.Equal(t, "B body", out.Comparison.VariantB.Contents[0].Body)
	assert.Equal(t, []string{"brand_guide.md"}, out.Comparison.SourcesUsed)
}

func TestResolveBareObject(t *testing.T) {
	// No fence at all: the trimmed full text is the candidate.
	out := Resolve("  " + singlePayload + "  ")
	require.NotNil(t, out)
	assert.Equal(t, domain.OutputSingle, out.Kind)
}

func TestResolveLastFenceWins(t *testing.T) {
	draft := "```json\n{\"contents\": [{\"platform\": \"x\", \"body\": \"early draft\"}]}\n```"
	final := "```json\n" + singlePayload + "\n```"
	text := "First attempt:\n" + draft + "\nRevised:\n" + final

	out := Resolve(text)
	require.NotNil(t, out)
	assert.Equal(t, "hi", out.Single.Contents[0].Body)
}

func TestResolveNoPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose only", "I am still thinking about the best angle here."},
		{"truncated json", `{"contents": [{"platform": "x", "bo`},
		{"fenced but truncated", "```json\n{\"contents\": [\n```"},
		{"array not object", `[1, 2, 3]`},
		{"object without discriminator", `{"title": "unrelated"}`},
		{"empty contents", `{"contents": []}`},
		{"item missing platform", `{"contents": [{"body": "hi"}]}`},
		{"single variant only", `{"variant_a": {"contents": []}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Resolve(tt.text))
		})
	}
}

func TestResolveToleratesExtraFields(t *testing.T) {
	text := `{"contents": [{"platform": "x", "body": "hi", "tone": "bold"}], "model_notes": "extra"}`

	out := Resolve(text)
	require.NotNil(t, out)
	assert.Equal(t, "hi", out.Single.Contents[0].Body)
}

// genStreamText mixes resolvable payloads with partial and plain text the
// way a live stream would produce them.
func genStreamText() gopter.Gen {
	return gen.OneConstOf(
		"",
		"analyzing the brief...",
		`{"contents": [{"platform": "x"`,
		singlePayload,
		comparisonPayload,
		"```json\n"+singlePayload+"\n```",
		"prose before\n```json\n"+comparisonPayload+"\n```\nprose after",
		`{"title": "unrelated"}`,
	)
}

func TestResolveIdempotentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same text resolves to identical output", prop.ForAll(
		func(text string) bool {
			first := Resolve(text)
			second := Resolve(text)
			return reflect.DeepEqual(first, second)
		},
		genStreamText(),
	))

	properties.TestingRun(t)
}

func TestMergeImagesAttaches(t *testing.T) {
	out := Resolve(singlePayload)
	require.NotNil(t, out)

	merged := MergeImages(out, map[string]string{"X": "aGVsbG8="})
	require.NotNil(t, merged)
	assert.Equal(t, "aGVsbG8=", merged.Single.Contents[0].ImageBase64)
	// Input untouched.
	assert.Empty(t, out.Single.Contents[0].ImageBase64)
}

func TestMergeImagesComparisonBothVariants(t *testing.T) {
	out := Resolve(comparisonPayload)
	require.NotNil(t, out)

	merged := MergeImages(out, map[string]string{"LinkedIn": "cGlj"})
	assert.Equal(t, "cGlj", merged.Comparison.VariantA.Contents[0].ImageBase64)
	assert.Equal(t, "cGlj", merged.Comparison.VariantB.Contents[0].ImageBase64)
	assert.Empty(t, out.Comparison.VariantA.Contents[0].ImageBase64)
}

func TestMergeImagesNoMatchIsIdentity(t *testing.T) {
	for _, payload := range []string{singlePayload, comparisonPayload} {
		out := Resolve(payload)
		require.NotNil(t, out)

		merged := MergeImages(out, map[string]string{"tiktok": "xxx"})
		assert.Equal(t, out, merged)

		merged = MergeImages(out, nil)
		assert.Equal(t, out, merged)
	}
}

func TestMergeImagesNilOutput(t *testing.T) {
	assert.Nil(t, MergeImages(nil, map[string]string{"x": "img"}))
}
