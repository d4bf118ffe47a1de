package agent

import "strings"

// Marker pairs embedded by the backend inside streamed message content.
// Tool events and reasoning snapshots arrive inline, wrapped in sentinel
// strings, and must be stripped from the displayable text.
const (
	toolEventStart = "__TOOL_EVENT__"
	toolEventEnd   = "__END_TOOL_EVENT__"
	reasoningStart = "__REASONING_REPLACE__"
	reasoningEnd   = "__END_REASONING_REPLACE__"
	imageDataStart = "__IMAGE_DATA__"
	imageDataEnd   = "__END_IMAGE_DATA__"
)

type markerKind int

const (
	spanText markerKind = iota
	spanToolEvent
	spanReasoning
	spanImageData
)

// markerSpan is one tokenized segment of streamed content: either plain
// text or the body of a marker pair (markers themselves excluded).
type markerSpan struct {
	kind markerKind
	body string
}

// markerPair describes one start/end sentinel and the span kind it yields.
type markerPair struct {
	start string
	end   string
	kind  markerKind
}

var markerPairs = []markerPair{
	{toolEventStart, toolEventEnd, spanToolEvent},
	{reasoningStart, reasoningEnd, spanReasoning},
	{imageDataStart, imageDataEnd, spanImageData},
}

// splitMarkers tokenizes content into text and marker-body spans, in
// order of appearance. A start marker without its matching end marker is
// left in the text untouched: the backend re-sends complete content, so a
// torn marker heals on the next frame rather than losing the tail.
func splitMarkers(content string) []markerSpan {
	var spans []markerSpan
	for content != "" {
		idx, pair := nextMarker(content)
		if idx < 0 {
			spans = append(spans, markerSpan{kind: spanText, body: content})
			break
		}

		endIdx := strings.Index(content[idx+len(pair.start):], pair.end)
		if endIdx < 0 {
			// Unterminated: keep everything literal.
			spans = append(spans, markerSpan{kind: spanText, body: content})
			break
		}

		if idx > 0 {
			spans = append(spans, markerSpan{kind: spanText, body: content[:idx]})
		}
		bodyStart := idx + len(pair.start)
		spans = append(spans, markerSpan{kind: pair.kind, body: content[bodyStart : bodyStart+endIdx]})
		content = content[bodyStart+endIdx+len(pair.end):]
	}
	return spans
}

// nextMarker finds the earliest start marker in content, returning its
// index and pair, or -1 when none is present.
func nextMarker(content string) (int, markerPair) {
	best := -1
	var bestPair markerPair
	for _, pair := range markerPairs {
		idx := strings.Index(content, pair.start)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
			bestPair = pair
		}
	}
	return best, bestPair
}

// plainText concatenates the text spans of a tokenized content string,
// dropping every marker body.
func plainText(spans []markerSpan) string {
	var b strings.Builder
	for _, span := range spans {
		if span.kind == spanText {
			b.WriteString(span.body)
		}
	}
	return b.String()
}
