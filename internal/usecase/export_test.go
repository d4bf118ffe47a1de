package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"social-studio/internal/domain"
)

func exportSingleFixture() *domain.ResolvedOutput {
	return &domain.ResolvedOutput{
		Kind: domain.OutputSingle,
		Single: &domain.ContentOutput{
			Contents: []domain.ContentItem{
				{
					Platform:     "linkedin",
					Body:         "  Launch day.  ",
					Hashtags:     []string{"golang", "#launch"},
					CallToAction: "Read the changelog",
					PostingTime:  "Tuesday 9am",
				},
			},
			Review: domain.Review{
				OverallScore: 8.5,
				Scores: domain.ReviewScores{
					BrandAlignment:       9,
					AudienceRelevance:    8,
					EngagementPotential:  8.5,
					Clarity:              9,
					PlatformOptimization: 8,
				},
				Feedback:         []string{"Hook lands in the first line."},
				ImprovementsMade: []string{"Shortened the opener."},
			},
			SourcesUsed: []string{"brand_guide.md"},
		},
	}
}

func exportComparisonFixture() *domain.ResolvedOutput {
	return &domain.ResolvedOutput{
		Kind: domain.OutputComparison,
		Comparison: &domain.ABContentOutput{
			Mode: "ab",
			VariantA: domain.Variant{
				Strategy: "data-led",
				Contents: []domain.ContentItem{{Platform: "x", Body: "Numbers first."}},
				Review:   domain.Review{OverallScore: 8.1, Scores: domain.ReviewScores{Clarity: 8}},
			},
			VariantB: domain.Variant{
				Strategy: "story-led",
				Contents: []domain.ContentItem{{Platform: "x", Body: "Story first."}},
				Review:   domain.Review{OverallScore: 7.4, Scores: domain.ReviewScores{Clarity: 7}},
			},
			SourcesUsed: []string{"launch_notes.md", "brand_guide.md"},
		},
	}
}

func TestExportMarkdownSingle(t *testing.T) {
	got := ExportMarkdown(exportSingleFixture())

	want := `# Social Media Content

## LinkedIn

Launch day.

**Hashtags:** #golang #launch

**Call to action:** Read the changelog

**Best posting time:** Tuesday 9am

## Quality Review

| Axis | Score |
|---|---|
| Brand alignment | 9.0 |
| Audience relevance | 8.0 |
| Engagement potential | 8.5 |
| Clarity | 9.0 |
| Platform optimization | 8.0 |
| **Overall** | **8.5** |

**Feedback:**
- Hook lands in the first line.

**Improvements made:**
- Shortened the opener.

## Sources

- brand_guide.md
`
	if got != want {
		t.Errorf("markdown mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestExportMarkdownSuppressesEmptySections(t *testing.T) {
	out := &domain.ResolvedOutput{
		Kind: domain.OutputSingle,
		Single: &domain.ContentOutput{
			Contents: []domain.ContentItem{{Platform: "x", Body: "Short one."}},
		},
	}

	got := ExportMarkdown(out)
	want := "# Social Media Content\n\n## X\n\nShort one.\n"
	if got != want {
		t.Errorf("markdown mismatch:\n--- got ---\n%q\n--- want ---\n%q", got, want)
	}
	for _, absent := range []string{"Quality Review", "Hashtags", "Sources"} {
		if strings.Contains(got, absent) {
			t.Errorf("empty %s section should be suppressed", absent)
		}
	}
}

func TestExportMarkdownPlatformHeadings(t *testing.T) {
	out := &domain.ResolvedOutput{
		Kind: domain.OutputSingle,
		Single: &domain.ContentOutput{
			Contents: []domain.ContentItem{
				{Platform: "LinkedIn", Body: "a", Language: "vi"},
				{Platform: "instagram", Body: "b"},
				{Platform: "tiktok", Body: "c"},
			},
		},
	}

	got := ExportMarkdown(out)
	for _, heading := range []string{"## LinkedIn (vi)", "## Instagram", "## tiktok"} {
		if !strings.Contains(got, heading) {
			t.Errorf("missing heading %q in:\n%s", heading, got)
		}
	}
}

func TestExportMarkdownComparison(t *testing.T) {
	got := ExportMarkdown(exportComparisonFixture())

	posA := strings.Index(got, "## Variant A: data-led")
	posB := strings.Index(got, "## Variant B: story-led")
	posSrc := strings.Index(got, "## Sources")
	if posA < 0 || posB < 0 || posSrc < 0 {
		t.Fatalf("missing section in:\n%s", got)
	}
	if !(posA < posB && posB < posSrc) {
		t.Errorf("sections out of order: A=%d B=%d sources=%d", posA, posB, posSrc)
	}
	if !strings.Contains(got, "Numbers first.") || !strings.Contains(got, "Story first.") {
		t.Errorf("variant bodies missing in:\n%s", got)
	}
	if strings.Count(got, "## Quality Review") != 2 {
		t.Errorf("want one review table per variant, got:\n%s", got)
	}
}

func TestExportMarkdownDeterministic(t *testing.T) {
	// Two independently built, equal inputs must render byte-identical
	// documents, so exports can be diffed.
	first := ExportMarkdown(exportComparisonFixture())
	for i := 0; i < 5; i++ {
		if again := ExportMarkdown(exportComparisonFixture()); again != first {
			t.Fatalf("render %d differs from first", i)
		}
	}
}

func TestExportMarkdownNil(t *testing.T) {
	if got := ExportMarkdown(nil); got != "" {
		t.Errorf("nil output should render empty, got %q", got)
	}
}

func TestNormalizeHashtag(t *testing.T) {
	cases := []struct{ in, want string }{
		{"golang", "#golang"},
		{"#go", "#go"},
		{"  spaced  ", "#spaced"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeHashtag(tc.in); got != tc.want {
			t.Errorf("NormalizeHashtag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExportJSONSingle(t *testing.T) {
	out := exportSingleFixture()

	data, err := ExportJSON(out)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"contents\":") {
		t.Errorf("want pretty-printed single payload, got prefix %q", string(data[:min(len(data), 40)]))
	}

	var parsed domain.ContentOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !reflect.DeepEqual(parsed, *out.Single) {
		t.Errorf("round trip changed payload: %+v", parsed)
	}

	again, err := ExportJSON(exportSingleFixture())
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("equal inputs rendered different JSON")
	}
}

func TestExportJSONComparison(t *testing.T) {
	data, err := ExportJSON(exportComparisonFixture())
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.Contains(string(data), "\"variant_a\"") {
		t.Errorf("comparison payload missing variant_a:\n%s", data)
	}
}

func TestExportJSONNil(t *testing.T) {
	_, err := ExportJSON(nil)
	if !errors.Is(err, domain.ErrNoOutput) {
		t.Errorf("want ErrNoOutput, got %v", err)
	}
}

func TestExporterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exp := NewExporter(dir)
	out := exportSingleFixture()

	mdPath, err := exp.Write(out, FormatMarkdown)
	if err != nil {
		t.Fatalf("Write markdown: %v", err)
	}
	if filepath.Dir(mdPath) != dir {
		t.Errorf("path %q not under %q", mdPath, dir)
	}
	base := filepath.Base(mdPath)
	if !strings.HasPrefix(base, "content-") || !strings.HasSuffix(base, ".md") {
		t.Errorf("unexpected file name %q", base)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != ExportMarkdown(out) {
		t.Error("file content differs from rendered markdown")
	}

	jsonPath, err := exp.Write(out, FormatJSON)
	if err != nil {
		t.Fatalf("Write json: %v", err)
	}
	if !strings.HasSuffix(jsonPath, ".json") {
		t.Errorf("unexpected file name %q", jsonPath)
	}
	if jsonPath == mdPath {
		t.Error("consecutive writes reused the same file name")
	}
	var parsed domain.ContentOutput
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("written JSON invalid: %v", err)
	}
}

func TestExporterWriteNil(t *testing.T) {
	exp := NewExporter(t.TempDir())
	if _, err := exp.Write(nil, FormatMarkdown); !errors.Is(err, domain.ErrNoOutput) {
		t.Errorf("want ErrNoOutput, got %v", err)
	}
}
