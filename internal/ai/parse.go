package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ParseResponse extracts a ClassificationResult from model output. It accepts
// bare JSON, JSON wrapped in markdown code fences, and prose containing a
// single flat JSON object.
func ParseResponse(content string) (ClassificationResult, error) {
	body := stripCodeFence(content)
	if body == "" {
		return ClassificationResult{}, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		match := jsonObjectPattern.FindString(body)
		if match == "" {
			return ClassificationResult{}, fmt.Errorf("%w: could not parse response as JSON: %s", ErrInvalidResponse, preview(body, 200))
		}
		raw = rawResult{}
		if err := json.Unmarshal([]byte(match), &raw); err != nil {
			return ClassificationResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return raw.toResult()
}

func stripCodeFence(content string) string {
	body := strings.TrimSpace(content)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

func preview(body string, max int) string {
	if len(body) <= max {
		return body
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
