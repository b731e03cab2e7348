package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zombar/factcheck/internal/models"
)

const (
	sectionMaxLen  = 1500
	fallbackMaxLen = 1000
)

// scorePattern is one entry in the ordered score-extraction list. A
// pattern with two capture groups is a range; the extracted value is
// the rounded midpoint of the bounds.
type scorePattern struct {
	re      *regexp.Regexp
	isRange bool
}

// Evaluated strictly in order; the first pattern producing a value in
// [0,100] wins and later patterns are never tried.
var scorePatterns = []scorePattern{
	{re: regexp.MustCompile(`(?i)(?:CREDIBILITY SCORE|CREDIBILITY).*?(\d+)`)},
	{re: regexp.MustCompile(`(?i)(\d+)%.*?(?:credible|credibility|accurate|score)`)},
	{re: regexp.MustCompile(`(?i)(?:score|rating).*?(\d+)`)},
	{re: regexp.MustCompile(`(\d+)/100`)},
	{re: regexp.MustCompile(`(?i)verified facts.*?(\d+)-(\d+)%`), isRange: true},
	{re: regexp.MustCompile(`(?i)authoritative sources.*?(\d+)-(\d+)%`), isRange: true},
}

var verdictRe = regexp.MustCompile(`(?i)(?:VERDICT|CONCLUSION).*?(CREDIBLE|FALSE|MISLEADING|UNCERTAIN|AI_GENERATED|MANIPULATED|AUTHENTIC|BREAKING_NEWS)`)

// extractScore scans text for an explicit credibility score. The bool
// reports whether any pattern matched with an in-range value.
func extractScore(text string) (int, bool) {
	for _, p := range scorePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var score int
		if p.isRange {
			low, err1 := strconv.Atoi(m[1])
			high, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				continue
			}
			score = int(math.Round(float64(low+high) / 2))
		} else {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			score = n
		}

		if score >= 0 && score <= 100 {
			return score, true
		}
	}
	return 0, false
}

// extractVerdict finds an explicit verdict token and maps it onto the
// ternary verdict. The bool distinguishes "no token found" from an
// explicit UNCERTAIN, which downstream must treat differently.
func extractVerdict(text string) (models.Verdict, bool) {
	m := verdictRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	switch strings.ToUpper(m[1]) {
	case "CREDIBLE", "AUTHENTIC", "BREAKING_NEWS":
		return models.VerdictTrue, true
	case "FALSE", "MISLEADING", "AI_GENERATED", "MANIPULATED":
		return models.VerdictFalse, true
	default:
		return models.VerdictUncertain, true
	}
}

// extractSection pulls the body of a `## NAME` headed block out of the
// model's reply. When the heading form is absent it falls back to a
// bare "NAME: ..." match terminated by a blank line, and when that
// also fails it returns a generated placeholder, so the caller always
// receives a usable string.
func extractSection(text, sectionName string) string {
	quoted := regexp.QuoteMeta(sectionName)

	headingRe := regexp.MustCompile(`(?is)## ` + quoted + `(.*?)(?:## |$)`)
	if m := headingRe.FindStringSubmatch(text); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return truncate(body, sectionMaxLen)
		}
	}

	fallbackRe := regexp.MustCompile(`(?is)` + quoted + `[:\s]*(.*?)(?:\n\n|$)`)
	if m := fallbackRe.FindStringSubmatch(text); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return truncate(body, fallbackMaxLen)
		}
	}

	return fmt.Sprintf("Enhanced %s analysis completed.", strings.ToLower(sectionName))
}

// truncate limits s to max characters, counted in runes so a
// multi-byte reply is never split mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
