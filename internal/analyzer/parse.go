package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
)

var (
	errNoJSONObject = errors.New("no JSON object found in response")
	errEmptyInsight = errors.New("response object has no insight fields")
)

// ExtractJSONSpan returns the text from the first '{' to the last '}'.
func ExtractJSONSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// BalancedJSONObjects returns every top-level brace-balanced span in raw, in
// order. Braces inside JSON string literals are ignored.
func BalancedJSONObjects(raw string) []string {
	var (
		spans    []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, raw[start:i+1])
				start = -1
			}
		}
	}

	return spans
}

// ParseStructuredInsight pulls a StructuredInsight out of a free-form reply.
// The widest brace span is tried first; if it does not decode, each balanced
// object is tried in order. Mistyped fields are coerced rather than rejected,
// but an object carrying none of the insight fields does not count.
func ParseStructuredInsight(raw string) (*models.StructuredInsight, error) {
	span, ok := ExtractJSONSpan(raw)
	if !ok {
		return nil, errNoJSONObject
	}

	insight, firstErr := decodeStructured(span)
	if firstErr == nil {
		return insight, nil
	}

	for _, candidate := range BalancedJSONObjects(raw) {
		if candidate == span {
			continue
		}
		if insight, err := decodeStructured(candidate); err == nil {
			return insight, nil
		}
	}

	return nil, fmt.Errorf("failed to parse response as JSON: %w", firstErr)
}

func decodeStructured(span string) (*models.StructuredInsight, error) {
	var insight models.StructuredInsight
	if err := json.Unmarshal([]byte(span), &insight); err != nil {
		return nil, err
	}
	if insight.IsEmpty() {
		return nil, errEmptyInsight
	}
	return &insight, nil
}
