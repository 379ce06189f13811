package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bare json",
			content: `{"category": "TECHNICAL", "priority": "HIGH", "confidence_score": 0.95, "reasoning": "login issue"}`,
		},
		{
			name:    "json code fence",
			content: "```json\n{\"category\": \"TECHNICAL\", \"priority\": \"HIGH\", \"confidence_score\": 0.95, \"reasoning\": \"login issue\"}\n```",
		},
		{
			name:    "plain code fence",
			content: "```\n{\"category\": \"TECHNICAL\", \"priority\": \"HIGH\", \"confidence_score\": 0.95, \"reasoning\": \"login issue\"}\n```",
		},
		{
			name:    "embedded in prose",
			content: `Sure! Here is the classification: {"category": "TECHNICAL", "priority": "HIGH", "confidence_score": 0.95, "reasoning": "login issue"} Let me know if you need more.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.content)
			require.NoError(t, err)
			assert.Equal(t, ClassificationResult{
				Category:   domain.TicketCategoryTechnical,
				Priority:   domain.TicketPriorityHigh,
				Confidence: 0.95,
				Reasoning:  "login issue",
			}, got)
		})
	}
}

func TestParseResponseRejectsInvalidOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: "   "},
		{name: "not json", content: "I think this is a billing problem."},
		{name: "unknown category", content: `{"category": "SALES", "priority": "LOW", "confidence_score": 0.5, "reasoning": ""}`},
		{name: "unknown priority", content: `{"category": "BILLING", "priority": "CRITICAL", "confidence_score": 0.5, "reasoning": ""}`},
		{name: "lowercase enum", content: `{"category": "billing", "priority": "low", "confidence_score": 0.5, "reasoning": ""}`},
		{name: "missing confidence", content: `{"category": "BILLING", "priority": "LOW", "reasoning": ""}`},
		{name: "confidence above one", content: `{"category": "BILLING", "priority": "LOW", "confidence_score": 1.5, "reasoning": ""}`},
		{name: "negative confidence", content: `{"category": "BILLING", "priority": "LOW", "confidence_score": -0.1, "reasoning": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.content)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestPreviewKeepsWholeCharacters(t *testing.T) {
	body := strings.Repeat("é", 150)

	got := preview(body, 201)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)

	assert.Equal(t, "short", preview("short", 200))
}

func TestParseResponseErrorIsValidUTF8(t *testing.T) {
	_, err := ParseResponse("x" + strings.Repeat("ü", 300))
	require.ErrorIs(t, err, ErrInvalidResponse)
	assert.True(t, utf8.ValidString(err.Error()))
}
