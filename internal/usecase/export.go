package usecase

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"social-studio/internal/domain"
)

// platformTitles maps platform identifiers to display names for export
// headings. Unknown platforms fall back to the raw identifier.
var platformTitles = map[string]string{
	domain.PlatformLinkedIn:  "LinkedIn",
	domain.PlatformX:         "X",
	domain.PlatformInstagram: "Instagram",
}

// ExportMarkdown renders a resolved output as a markdown document. The
// rendering is deterministic: identical input produces byte-identical
// output, so exports can be diffed and golden-tested.
func ExportMarkdown(out *domain.ResolvedOutput) string {
	if out == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Social Media Content\n")

	switch out.Kind {
	case domain.OutputSingle:
		if out.Single != nil {
			writeItems(&b, out.Single.Contents)
			writeReview(&b, out.Single.Review)
			writeSources(&b, out.Single.SourcesUsed)
		}
	case domain.OutputComparison:
		if out.Comparison != nil {
			writeVariant(&b, "Variant A", out.Comparison.VariantA)
			writeVariant(&b, "Variant B", out.Comparison.VariantB)
			writeSources(&b, out.Comparison.SourcesUsed)
		}
	}
	return b.String()
}

func writeVariant(b *strings.Builder, label string, variant domain.Variant) {
	b.WriteString("\n## " + label)
	if variant.Strategy != "" {
		b.WriteString(": " + variant.Strategy)
	}
	b.WriteString("\n")
	writeItems(b, variant.Contents)
	writeReview(b, variant.Review)
}

func writeItems(b *strings.Builder, items []domain.ContentItem) {
	for _, item := range items {
		b.WriteString("\n## " + platformTitle(item.Platform))
		if item.Language != "" {
			b.WriteString(" (" + item.Language + ")")
		}
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(item.Body))
		b.WriteString("\n")

		if len(item.Hashtags) > 0 {
			tags := make([]string, len(item.Hashtags))
			for i, tag := range item.Hashtags {
				tags[i] = NormalizeHashtag(tag)
			}
			b.WriteString("\n**Hashtags:** " + strings.Join(tags, " ") + "\n")
		}
		if item.CallToAction != "" {
			b.WriteString("\n**Call to action:** " + item.CallToAction + "\n")
		}
		if item.PostingTime != "" {
			b.WriteString("\n**Best posting time:** " + item.PostingTime + "\n")
		}
	}
}

// writeReview renders the review table. A zero overall score means the
// agent never reviewed; the section is suppressed entirely.
func writeReview(b *strings.Builder, review domain.Review) {
	if !review.HasReview() {
		return
	}

	b.WriteString("\n## Quality Review\n\n")
	b.WriteString("| Axis | Score |\n|---|---|\n")
	fmt.Fprintf(b, "| Brand alignment | %.1f |\n", review.Scores.BrandAlignment)
	fmt.Fprintf(b, "| Audience relevance | %.1f |\n", review.Scores.AudienceRelevance)
	fmt.Fprintf(b, "| Engagement potential | %.1f |\n", review.Scores.EngagementPotential)
	fmt.Fprintf(b, "| Clarity | %.1f |\n", review.Scores.Clarity)
	fmt.Fprintf(b, "| Platform optimization | %.1f |\n", review.Scores.PlatformOptimization)
	fmt.Fprintf(b, "| **Overall** | **%.1f** |\n", review.OverallScore)

	if len(review.Feedback) > 0 {
		b.WriteString("\n**Feedback:**\n")
		for _, line := range review.Feedback {
			b.WriteString("- " + line + "\n")
		}
	}
	if len(review.ImprovementsMade) > 0 {
		b.WriteString("\n**Improvements made:**\n")
		for _, line := range review.ImprovementsMade {
			b.WriteString("- " + line + "\n")
		}
	}
}

func writeSources(b *strings.Builder, sources []string) {
	if len(sources) == 0 {
		return
	}
	b.WriteString("\n## Sources\n\n")
	for _, src := range sources {
		b.WriteString("- " + src + "\n")
	}
}

func platformTitle(platform string) string {
	if title, ok := platformTitles[strings.ToLower(platform)]; ok {
		return title
	}
	return platform
}

// NormalizeHashtag ensures a tag carries a leading marker.
func NormalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.HasPrefix(tag, "#") {
		return tag
	}
	return "#" + tag
}

// ExportJSON renders a resolved output as pretty-printed JSON, verbatim
// from the in-memory structures.
func ExportJSON(out *domain.ResolvedOutput) ([]byte, error) {
	if out == nil {
		return nil, domain.NewDomainError("Export.JSON", domain.ErrNoOutput, "nothing to export")
	}

	var payload any
	switch out.Kind {
	case domain.OutputComparison:
		payload = out.Comparison
	default:
		payload = out.Single
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, domain.NewDomainError("Export.JSON", domain.ErrExportFailed, err.Error())
	}
	return data, nil
}

// ExportFormat selects the on-disk rendering of an export.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
)

// Exporter writes resolved output to files in a configured directory.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// newExportID generates a ULID for export file names.
func newExportID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Write renders out in the given format and writes it to a fresh
// ULID-named file, returning the full path.
func (e *Exporter) Write(out *domain.ResolvedOutput, format ExportFormat) (string, error) {
	const op = "Export.Write"
	if out == nil {
		return "", domain.NewDomainError(op, domain.ErrNoOutput, "nothing to export")
	}

	var (
		data []byte
		ext  string
		err  error
	)
	switch format {
	case FormatJSON:
		ext = "json"
		data, err = ExportJSON(out)
		if err != nil {
			return "", err
		}
	default:
		ext = "md"
		data = []byte(ExportMarkdown(out))
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", domain.NewDomainError(op, domain.ErrExportFailed, err.Error())
	}

	id := newExportID(time.Now())
	path := filepath.Join(e.dir, fmt.Sprintf("content-%s.%s", strings.ToLower(id), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", domain.NewDomainError(op, domain.ErrExportFailed, err.Error())
	}
	return path, nil
}
