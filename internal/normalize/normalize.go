// Package normalize maps heterogeneous upstream JSON responses to a
// single display string.
//
// The three upstream services are independently operated and return
// different envelope shapes, so extraction runs an ordered list of
// strategies and degrades to "something displayable" rather than fail.
package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/GOHANX1234/Aibot/internal/domain"
)

// extractor attempts to pull a response string out of the raw body.
// It fails cleanly (ok=false) when the shape doesn't match.
type extractor func(model string, body json.RawMessage) (string, bool)

// Extraction precedence, first match wins. The candidate-parts shape is
// reserved for model x1; the field checks cover the other envelopes; the
// raw-serialization fallback always succeeds.
var extractors = []extractor{
	extractCandidateParts,
	fieldExtractor("text"),
	fieldExtractor("content"),
	fieldExtractor("answer"),
	fieldExtractor("response"),
	fieldExtractor("message"),
	extractRaw,
}

// Response normalizes an upstream JSON body to a response string.
func Response(model string, body json.RawMessage) string {
	for _, extract := range extractors {
		if text, ok := extract(model, body); ok {
			return text
		}
	}
	// extractRaw always succeeds; not reached.
	return string(body)
}

// candidateEnvelope is the nested candidate/content/parts structure used
// by the x1 provider.
type candidateEnvelope struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func extractCandidateParts(model string, body json.RawMessage) (string, bool) {
	if model != domain.ModelX1 {
		return "", false
	}

	var env candidateEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	if len(env.Candidates) == 0 {
		return "", false
	}

	var texts []string
	for _, part := range env.Candidates[0].Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	if len(texts) == 0 {
		return "", false
	}

	return strings.Join(texts, "\n"), true
}

// fieldExtractor matches a top-level string field of the given name.
func fieldExtractor(name string) extractor {
	return func(_ string, body json.RawMessage) (string, bool) {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return "", false
		}

		raw, ok := fields[name]
		if !ok {
			return "", false
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", false
		}
		if text == "" {
			return "", false
		}

		return text, true
	}
}

// extractRaw serializes the whole body. Last resort, always succeeds.
func extractRaw(_ string, body json.RawMessage) (string, bool) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(body)); err != nil {
		return string(body), true
	}
	return compact.String(), true
}
