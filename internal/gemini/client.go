// Package gemini wraps the Gemini generateContent REST endpoint with
// Google Search grounding enabled.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/zombar/factcheck/internal/analyzer"
	"github.com/zombar/factcheck/internal/models"
	"github.com/zombar/factcheck/internal/ratelimit"
)

const (
	DefaultAPIURL  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"
	DefaultTimeout = 30 * time.Second

	// Upstream quota for the free tier; enforced locally so exhausted
	// requests fail before any network I/O.
	DefaultRequestsPerMinute = 15
)

// ErrRateLimited is returned when the local request window for the
// upstream API is exhausted. No network call is attempted.
var ErrRateLimited = errors.New("rate limit exceeded for Gemini API")

// ErrInvalidResponse is returned when the upstream replied with a
// success status but the expected text payload is missing. Distinct
// from an upstream failure so callers can tell "service down" from
// "service replied nonsense".
var ErrInvalidResponse = errors.New("invalid response from Gemini API")

// UpstreamError carries the status and message of a failed API call.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Gemini API error (status %d): %s", e.StatusCode, e.Message)
}

// Client calls the Gemini API and parses replies into structured
// analysis results. It performs no retries; a failed call surfaces
// directly to the caller.
type Client struct {
	apiURL  string
	apiKey  string
	httpc   *http.Client
	limiter *ratelimit.Window
	logger  *slog.Logger
}

// New creates a Gemini client with its own request window. An empty
// apiURL selects the default public endpoint; the API key is required.
func New(apiURL, apiKey string) (*Client, error) {
	return NewWithLimiter(apiURL, apiKey, ratelimit.New(DefaultRequestsPerMinute, time.Minute))
}

// NewWithLimiter creates a Gemini client using the provided request
// window, keeping the limiter state explicit and injectable.
func NewWithLimiter(apiURL, apiKey string, limiter *ratelimit.Window) (*Client, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("gemini: invalid API URL: %w", err)
	}

	return &Client{
		apiURL:  apiURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: DefaultTimeout},
		limiter: limiter,
		logger:  slog.Default(),
	}, nil
}

// request/response wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	Tools            []tool           `json:"tools"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type tool struct {
	GoogleSearch struct{} `json:"googleSearch"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           *content                  `json:"content"`
	GroundingMetadata *models.GroundingMetadata `json:"groundingMetadata"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the content and optional image to Gemini and parses
// the reply into a structured analysis result.
func (c *Client) Analyze(ctx context.Context, contentText string, image *models.ImageData) (*models.AnalysisResult, error) {
	if !c.limiter.Allow() {
		return nil, ErrRateLimited
	}

	hasImage := image != nil
	c.logger.Info("starting Gemini analysis",
		"has_image", hasImage,
		"content_length", len(contentText),
	)

	prompt := BuildAnalysisPrompt(contentText, hasImage)
	rawText, grounding, err := c.generate(ctx, prompt, image)
	if err != nil {
		return nil, err
	}

	result := analyzer.ParseResponse(rawText, grounding, contentText, hasImage)

	c.logger.Info("Gemini analysis completed",
		"credibility_score", result.CredibilityScore,
		"verdict", result.Verdict,
		"has_grounding", result.GroundingMetadata != nil,
	)

	return result, nil
}

// generate performs the raw API call and validates the response shape.
func (c *Client) generate(ctx context.Context, prompt string, image *models.ImageData) (string, *models.GroundingMetadata, error) {
	reqBody := buildRequestBody(prompt, image)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return "", nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", nil, &UpstreamError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, &UpstreamError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		msg := resp.Status
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		c.logger.Error("Gemini API error", "status", resp.StatusCode, "message", msg)
		return "", nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(genResp.Candidates) == 0 ||
		genResp.Candidates[0].Content == nil ||
		len(genResp.Candidates[0].Content.Parts) == 0 ||
		genResp.Candidates[0].Content.Parts[0].Text == "" {
		return "", nil, ErrInvalidResponse
	}

	return genResp.Candidates[0].Content.Parts[0].Text, genResp.Candidates[0].GroundingMetadata, nil
}

// buildRequestBody assembles the generateContent payload with search
// grounding, fixed sampling parameters, and safety thresholds.
func buildRequestBody(prompt string, image *models.ImageData) generateRequest {
	parts := []part{{Text: prompt}}
	if image != nil {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: image.MimeType,
			Data:     image.Data,
		}})
	}

	return generateRequest{
		Contents: []content{{Parts: parts}},
		Tools:    []tool{{}},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			TopK:            30,
			TopP:            0.8,
			MaxOutputTokens: 3072,
			CandidateCount:  1,
		},
		SafetySettings: []safetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}
}
