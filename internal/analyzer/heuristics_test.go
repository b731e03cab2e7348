package analyzer

import (
	"testing"

	"github.com/zombar/factcheck/internal/models"
)

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		grounding *models.GroundingMetadata
		hasImage  bool
		expected  int
	}{
		{
			name:     "neutral text stays at baseline",
			text:     "Nothing of note in this reply.",
			expected: 50,
		},
		{
			name:     "repeated authoritative sources add up",
			text:     "Authoritative sources back the claim. Further authoritative sources agree.",
			expected: 90,
		},
		{
			name: "grounding signals add bonuses",
			text: "Nothing of note in this reply.",
			grounding: &models.GroundingMetadata{
				SearchQueries: []string{"claim check"},
				WebResults:    []models.WebResult{{URL: "https://example.org"}},
			},
			expected: 80,
		},
		{
			name:     "contradiction language drags the score down",
			text:     "The claim was debunked and there is no evidence for it.",
			expected: 5,
		},
		{
			name:     "floor holds under heavy contradiction",
			text:     "contradicted, false, incorrect, inaccurate, debunked claims",
			expected: 5,
		},
		{
			name:     "ceiling holds under heavy verification",
			text:     "confirmed verified accurate correct true",
			expected: 95,
		},
		{
			name:     "image indicators apply with an image",
			text:     "deepfake with suspicious artifacts",
			hasImage: true,
			expected: 5,
		},
		{
			name:     "image indicators ignored without an image",
			text:     "deepfake with suspicious artifacts",
			hasImage: false,
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristicScore(tt.text, tt.grounding, tt.hasImage)
			if got != tt.expected {
				t.Errorf("heuristicScore() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAdjustScore(t *testing.T) {
	threeResults := &models.GroundingMetadata{
		WebResults: []models.WebResult{
			{URL: "https://a.example"},
			{URL: "https://b.example"},
			{URL: "https://c.example"},
		},
	}

	tests := []struct {
		name      string
		score     int
		text      string
		grounding *models.GroundingMetadata
		expected  int
	}{
		{
			name:     "low score raised by verification language",
			score:    65,
			text:     "The claim was confirmed by reporting.",
			expected: 85,
		},
		{
			name:     "score at or above 70 is left alone",
			score:    72,
			text:     "The claim was confirmed by reporting.",
			expected: 72,
		},
		{
			name:      "grounded confirmation sets a floor of 80",
			score:     50,
			text:      "Multiple outlets confirm the core claim.",
			grounding: threeResults,
			expected:  80,
		},
		{
			name:     "contradiction caps the score at 25",
			score:    90,
			text:     "This is false according to the record.",
			expected: 25,
		},
		{
			name:     "contradiction cap wins over a raise",
			score:    40,
			text:     "Parts were verified yet the headline claim is false.",
			expected: 25,
		},
		{
			name:     "no matching language leaves the score untouched",
			score:    55,
			text:     "Coverage was sparse on this topic.",
			expected: 55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustScore(tt.score, tt.text, tt.grounding)
			if got != tt.expected {
				t.Errorf("adjustScore(%d) = %d, want %d", tt.score, got, tt.expected)
			}
		})
	}
}

func TestVerdictFromScore(t *testing.T) {
	tests := []struct {
		score    int
		expected models.Verdict
	}{
		{100, models.VerdictTrue},
		{80, models.VerdictTrue},
		{79, models.VerdictUncertain},
		{50, models.VerdictUncertain},
		{31, models.VerdictUncertain},
		{30, models.VerdictFalse},
		{0, models.VerdictFalse},
	}

	for _, tt := range tests {
		if got := verdictFromScore(tt.score); got != tt.expected {
			t.Errorf("verdictFromScore(%d) = %q, want %q", tt.score, got, tt.expected)
		}
	}
}
