package models

import (
	"encoding/json"
	"time"
)

// Verdict is the ternary outcome of an analysis. "uncertain" is a
// first-class result, not an error state.
type Verdict string

const (
	VerdictTrue      Verdict = "true"
	VerdictFalse     Verdict = "false"
	VerdictUncertain Verdict = "uncertain"
)

// AnalysisRequest is the validated input handed to the Gemini client.
// Content and Image are both optional but never both absent.
type AnalysisRequest struct {
	Content string     `json:"content,omitempty"`
	Image   *ImageData `json:"image,omitempty"`
}

// ImageData holds a decoded, validated image ready for the inlineData
// part of a Gemini request.
type ImageData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Size     int    `json:"size,omitempty"` // bytes before encoding
}

// WebResult is a single grounded search hit returned by the model.
type WebResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// GroundingMetadata carries the search context Gemini attached to a
// candidate. GroundingSupports is passed through uninterpreted.
type GroundingMetadata struct {
	SearchQueries     []string          `json:"searchQueries,omitempty"`
	WebResults        []WebResult       `json:"webResults,omitempty"`
	GroundingSupports []json.RawMessage `json:"groundingSupports,omitempty"`
}

// AnalysisResult is the structured analysis returned to the caller.
// CredibilityScore is always in [0,100] and Verdict is always set;
// every section field is always a non-empty string (placeholder text
// when extraction found nothing). The image sections are populated iff
// an image was analyzed.
type AnalysisResult struct {
	CredibilityScore int     `json:"credibilityScore"`
	Verdict          Verdict `json:"verdict"`

	SearchVerificationDetails string `json:"searchVerificationDetails"`
	FactVerification          string `json:"factVerification"`
	SearchFindings            string `json:"searchFindings"`
	MisinformationAnalysis    string `json:"misinformationAnalysis"`
	SourceRecommendations     string `json:"sourceRecommendations"`
	ContextExplanation        string `json:"contextExplanation"`

	ImageAnalysis      string `json:"imageAnalysis,omitempty"`
	FakeDetection      string `json:"fakeDetection,omitempty"`
	ReverseImageSearch string `json:"reverseImageSearch,omitempty"`

	FullResponse    string    `json:"fullResponse"`
	OriginalContent string    `json:"originalContent"`
	Timestamp       time.Time `json:"timestamp"`
	Model           string    `json:"model"`
	HasImage        bool      `json:"hasImage"`

	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}
