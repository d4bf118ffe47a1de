package domain

// Supported target platforms. The backend prompt enforces per-platform
// length and tone rules; the client only needs the identifiers.
const (
	PlatformLinkedIn  = "linkedin"
	PlatformX         = "x"
	PlatformInstagram = "instagram"
)

// DefaultPlatforms is the platform set used when a request specifies none.
var DefaultPlatforms = []string{PlatformLinkedIn, PlatformX, PlatformInstagram}

// ContentItem is one generated post for one platform. Language is set only
// in bilingual parallel mode, where each platform appears once per language.
// ImageBase64 is filled by the image merge, never by the generator JSON.
type ContentItem struct {
	Platform     string   `json:"platform"`
	Body         string   `json:"body"`
	Hashtags     []string `json:"hashtags"`
	CallToAction string   `json:"call_to_action"`
	PostingTime  string   `json:"posting_time"`
	ImagePrompt  string   `json:"image_prompt,omitempty"`
	Language     string   `json:"language,omitempty"`
	ImageBase64  string   `json:"image_base64,omitempty"`
}

// ReviewScores holds the five quality axes, each on a 0-10 scale.
type ReviewScores struct {
	BrandAlignment       float64 `json:"brand_alignment"`
	AudienceRelevance    float64 `json:"audience_relevance"`
	EngagementPotential  float64 `json:"engagement_potential"`
	Clarity              float64 `json:"clarity"`
	PlatformOptimization float64 `json:"platform_optimization"`
}

// Review is the agent's self-review of a content set. OverallScore 0 means
// no review happened; callers must suppress review display in that case.
type Review struct {
	OverallScore     float64      `json:"overall_score"`
	Scores           ReviewScores `json:"scores"`
	Feedback         []string     `json:"feedback"`
	ImprovementsMade []string     `json:"improvements_made"`
}

// HasReview reports whether the review carries meaningful scores.
func (r Review) HasReview() bool { return r.OverallScore > 0 }

// ContentOutput is the single-variant structured payload.
type ContentOutput struct {
	Contents    []ContentItem `json:"contents"`
	Review      Review        `json:"review"`
	SourcesUsed []string      `json:"sources_used"`
}

// Variant is one side of an A/B comparison.
type Variant struct {
	Strategy string        `json:"strategy"`
	Contents []ContentItem `json:"contents"`
	Review   Review        `json:"review"`
}

// ABContentOutput is the two-variant comparison payload (mode "ab").
type ABContentOutput struct {
	Mode        string   `json:"mode"`
	VariantA    Variant  `json:"variant_a"`
	VariantB    Variant  `json:"variant_b"`
	SourcesUsed []string `json:"sources_used"`
}

// OutputKind discriminates the two resolved output shapes.
type OutputKind string

const (
	OutputSingle     OutputKind = "single"
	OutputComparison OutputKind = "comparison"
)

// ResolvedOutput is the parsed structured payload recovered from the
// cumulative stream text. It is derived state: recomputed on every flush
// and discarded whenever the text does not (yet) contain a valid payload.
type ResolvedOutput struct {
	Kind       OutputKind
	Single     *ContentOutput
	Comparison *ABContentOutput
}

// Items returns all content items across variants, in document order.
func (o *ResolvedOutput) Items() []ContentItem {
	if o == nil {
		return nil
	}
	switch o.Kind {
	case OutputSingle:
		if o.Single == nil {
			return nil
		}
		return o.Single.Contents
	case OutputComparison:
		if o.Comparison == nil {
			return nil
		}
		items := make([]ContentItem, 0, len(o.Comparison.VariantA.Contents)+len(o.Comparison.VariantB.Contents))
		items = append(items, o.Comparison.VariantA.Contents...)
		items = append(items, o.Comparison.VariantB.Contents...)
		return items
	default:
		return nil
	}
}

// Sources returns the source list for either output shape.
func (o *ResolvedOutput) Sources() []string {
	if o == nil {
		return nil
	}
	if o.Kind == OutputComparison && o.Comparison != nil {
		return o.Comparison.SourcesUsed
	}
	if o.Single != nil {
		return o.Single.SourcesUsed
	}
	return nil
}
