package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/zombar/factcheck/internal/models"
)

const (
	heuristicBaseline = 50
	heuristicFloor    = 5
	heuristicCeiling  = 95
)

// indicator is a weighted keyword category. Every occurrence in the
// model's reply contributes its weight to the running score.
type indicator struct {
	re     *regexp.Regexp
	weight int
}

var verificationIndicators = []indicator{
	{regexp.MustCompile(`confirmed|verified|accurate|correct|true`), 15},
	{regexp.MustCompile(`authoritative sources|official|multiple sources`), 20},
	{regexp.MustCompile(`consistent|consistently reported`), 15},
	{regexp.MustCompile(`recent|breaking news|just launched|officially announced`), 10},
	{regexp.MustCompile(`search results confirm|google search shows|search reveals`), 25},
}

var contradictionIndicators = []indicator{
	{regexp.MustCompile(`contradicted|false|incorrect|inaccurate|debunked`), -30},
	{regexp.MustCompile(`no evidence|unverified|cannot confirm`), -15},
	{regexp.MustCompile(`mixed signals|conflicting|uncertain`), -10},
}

var imageIndicators = []indicator{
	{regexp.MustCompile(`authentic|legitimate|real photo|genuine image`), 20},
	{regexp.MustCompile(`ai.?generated|deepfake|manipulated|fake|synthetic`), -25},
	{regexp.MustCompile(`original source|legitimate news|verified photo`), 15},
	{regexp.MustCompile(`reverse image search confirms|found in credible sources`), 20},
	{regexp.MustCompile(`no signs of manipulation|consistent lighting|natural`), 10},
	{regexp.MustCompile(`suspicious artifacts|inconsistent|unnatural patterns`), -20},
}

// heuristicScore derives a credibility score from weighted keyword
// matches and grounding signals when the model did not emit an
// explicit score. The output is deliberately confined to [5,95]: a
// fallback never claims certainty at either extreme.
func heuristicScore(rawText string, grounding *models.GroundingMetadata, hasImage bool) int {
	score := float64(heuristicBaseline)
	lower := strings.ToLower(rawText)

	for _, ind := range verificationIndicators {
		score += float64(len(ind.re.FindAllString(lower, -1)) * ind.weight)
	}
	for _, ind := range contradictionIndicators {
		score += float64(len(ind.re.FindAllString(lower, -1)) * ind.weight)
	}

	if grounding != nil {
		if len(grounding.WebResults) > 0 {
			score += 20
		}
		if len(grounding.SearchQueries) > 0 {
			score += 10
		}
	}

	if hasImage {
		for _, ind := range imageIndicators {
			score += float64(len(ind.re.FindAllString(lower, -1)) * ind.weight)
		}
	}

	return clampHeuristic(score)
}

// adjustScore reconciles an explicitly extracted score against the
// reply's own verification language. Adjustments are one-directional
// floors and ceilings only; the score is never replaced outright.
func adjustScore(score int, rawText string, grounding *models.GroundingMetadata) int {
	adjusted := score
	lower := strings.ToLower(rawText)

	if strings.Contains(lower, "verified") || strings.Contains(lower, "confirmed") || strings.Contains(lower, "accurate") {
		if score < 70 {
			adjusted = max(score, 85)
		}
	}

	if grounding != nil && len(grounding.WebResults) >= 3 {
		if strings.Contains(lower, "confirm") || strings.Contains(lower, "verify") {
			adjusted = max(adjusted, 80)
		}
	}

	if strings.Contains(lower, "contradicted") || strings.Contains(lower, "false") {
		adjusted = min(adjusted, 25)
	}

	return clampHeuristic(float64(adjusted))
}

// verdictFromScore derives the ternary verdict when the model emitted
// no explicit verdict token.
func verdictFromScore(score int) models.Verdict {
	switch {
	case score >= 80:
		return models.VerdictTrue
	case score <= 30:
		return models.VerdictFalse
	default:
		return models.VerdictUncertain
	}
}

func clampHeuristic(score float64) int {
	return int(math.Min(heuristicCeiling, math.Max(heuristicFloor, math.Round(score))))
}
