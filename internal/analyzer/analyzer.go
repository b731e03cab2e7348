// Package analyzer turns the free-text reply of the generative model
// into a structured credibility analysis. Every code path degrades to
// a defined fallback (placeholder sections, heuristic scores, derived
// verdicts) so a malformed reply can never fail a request.
package analyzer

import (
	"strings"
	"time"

	"github.com/zombar/factcheck/internal/models"
)

// ModelName identifies the upstream model in assembled results.
const ModelName = "gemini-2.5-flash-multimodal"

// Section heading vocabulary emitted by the prompt templates. The
// extractor keys off these names verbatim.
const (
	SectionSearchVerification = "SEARCH VERIFICATION DETAILS"
	SectionFactVerification   = "FACT VERIFICATION STATUS"
	SectionSearchFindings     = "REAL-TIME SEARCH FINDINGS"
	SectionMisinformation     = "MISINFORMATION ANALYSIS"
	SectionSources            = "SOURCE RECOMMENDATIONS"
	SectionContext            = "CONTEXT AND EXPLANATION"
	SectionImageAuthenticity  = "IMAGE AUTHENTICITY ANALYSIS"
	SectionFakeDetection      = "FAKE/MANIPULATED IMAGE DETECTION"
	SectionReverseImageSearch = "REVERSE IMAGE SEARCH RESULTS"
)

// ParseResponse assembles an AnalysisResult from the model's raw reply
// and grounding metadata. The ordering is load-bearing:
//
//  1. extract explicit score and verdict;
//  2. score missing -> heuristic scorer, score present -> adjustment
//     pass (the two paths are disjoint; heuristic output is not
//     re-adjusted);
//  3. verdict missing -> derive from score;
//  4. contradiction override last, unconditionally.
func ParseResponse(rawText string, grounding *models.GroundingMetadata, originalContent string, hasImage bool) *models.AnalysisResult {
	score, scoreFound := extractScore(rawText)
	verdict, verdictFound := extractVerdict(rawText)

	result := &models.AnalysisResult{
		SearchVerificationDetails: extractSection(rawText, SectionSearchVerification),
		FactVerification:          extractSection(rawText, SectionFactVerification),
		SearchFindings:            extractSection(rawText, SectionSearchFindings),
		MisinformationAnalysis:    extractSection(rawText, SectionMisinformation),
		SourceRecommendations:     extractSection(rawText, SectionSources),
		ContextExplanation:        extractSection(rawText, SectionContext),
		FullResponse:              rawText,
		OriginalContent:           originalContent,
		Timestamp:                 time.Now().UTC(),
		Model:                     ModelName,
		HasImage:                  hasImage,
		GroundingMetadata:         grounding,
	}

	if hasImage {
		result.ImageAnalysis = extractSection(rawText, SectionImageAuthenticity)
		result.FakeDetection = extractSection(rawText, SectionFakeDetection)
		result.ReverseImageSearch = extractSection(rawText, SectionReverseImageSearch)
	}

	if !scoreFound {
		score = heuristicScore(rawText, grounding, hasImage)
	} else {
		score = adjustScore(score, rawText, grounding)
	}

	if !verdictFound {
		verdict = verdictFromScore(score)
	}

	// Contradiction language in the model's own explanation can never
	// coexist with a passing score, regardless of the path taken above.
	lower := strings.ToLower(rawText)
	if strings.Contains(lower, "contradicted") || strings.Contains(lower, "factually incorrect") {
		score = min(score, 20)
		verdict = models.VerdictFalse
	}

	result.CredibilityScore = clampScore(score)
	result.Verdict = verdict
	return result
}

// clampScore enforces the [0,100] result invariant.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
