package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/zombar/factcheck/internal/gemini"
	"github.com/zombar/factcheck/internal/imageproc"
	"github.com/zombar/factcheck/internal/models"
	"github.com/zombar/factcheck/internal/ratelimit"
	"github.com/zombar/factcheck/pkg/metrics"
	"github.com/zombar/factcheck/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// MaxContentLength bounds the text input in characters.
const MaxContentLength = 10000

// AnalysisService is the upstream analysis dependency. Satisfied by
// *gemini.Client; narrowed to an interface for handler tests.
type AnalysisService interface {
	Analyze(ctx context.Context, content string, image *models.ImageData) (*models.AnalysisResult, error)
}

// Handler handles HTTP requests
type Handler struct {
	service AnalysisService
	limiter *ratelimit.Window
	metrics *metrics.BusinessMetrics
	mux     *http.ServeMux
}

// NewHandler creates a new API handler with CORS support and metrics.
// limiter is the HTTP-layer request window, independent of the Gemini
// client's own per-minute window.
func NewHandler(service AnalysisService, limiter *ratelimit.Window, m *metrics.BusinessMetrics) http.Handler {
	h := &Handler{
		service: service,
		limiter: limiter,
		metrics: m,
		mux:     http.NewServeMux(),
	}

	h.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(h.mux)
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler())
	h.mux.HandleFunc("/api/fact-check/analyze", h.handleAnalyze)
	h.mux.HandleFunc("/api/health", h.handleHealth)
	h.mux.HandleFunc("/health", h.handleHealth)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// analyzeRequest is the JSON request body. Multipart requests carry
// the same inputs as a "content" field and an "image" file part.
type analyzeRequest struct {
	Content string `json:"content"`
	Image   *struct {
		MimeType string `json:"mimeType"`
		Data     string `json:"data"` // base64
	} `json:"image,omitempty"`
}

// handleAnalyze handles fact-check analysis requests
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.limiter != nil && !h.limiter.Allow() {
		respondError(w, "Too many requests", "Rate limit exceeded. Please try again later.",
			http.StatusTooManyRequests, map[string]any{
				"retryAfter": int(h.limiter.RetryAfter().Seconds()),
			})
		return
	}

	requestID := uuid.NewString()
	start := time.Now()

	content, image, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	if content == "" && image == nil {
		respondError(w, "Missing input", "Please provide either text content or an image to analyze",
			http.StatusBadRequest, nil)
		return
	}
	if len([]rune(content)) > MaxContentLength {
		respondError(w, "Content too long", "Text content must be less than 10,000 characters",
			http.StatusBadRequest, nil)
		return
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.Int("content.length", len(content)),
		attribute.Bool("request.has_image", image != nil),
		attribute.String("request.id", requestID),
	)

	result, err := h.service.Analyze(r.Context(), content, image)
	if err != nil {
		h.respondAnalysisError(w, err, requestID)
		return
	}

	duration := time.Since(start)
	if h.metrics != nil {
		h.metrics.AnalysesTotal.WithLabelValues("success").Inc()
		h.metrics.AnalysisDuration.Observe(duration.Seconds())
		h.metrics.CredibilityScores.Observe(float64(result.CredibilityScore))
	}

	respondJSON(w, map[string]any{
		"success": true,
		"data": map[string]any{
			"analysis": result,
			"metadata": map[string]any{
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
				"processingTime": duration.Milliseconds(),
				"requestId":      requestID,
				"model":          result.Model,
				"hasImage":       result.HasImage,
				"hasGrounding":   result.GroundingMetadata != nil,
			},
		},
	}, http.StatusOK)
}

// decodeAnalyzeRequest reads either a JSON or multipart analyze
// request. On failure it writes the error response and returns
// ok=false.
func (h *Handler) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (string, *models.ImageData, bool) {
	ct := r.Header.Get("Content-Type")

	if ct == "" || hasMediaType(ct, "application/json") {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request", "Request body must be valid JSON", http.StatusBadRequest, nil)
			return "", nil, false
		}

		if req.Image == nil {
			return req.Content, nil, true
		}

		raw, err := base64.StdEncoding.DecodeString(req.Image.Data)
		if err != nil {
			respondError(w, "Invalid image", "Image data must be base64 encoded", http.StatusBadRequest, nil)
			return "", nil, false
		}
		image, err := imageproc.Process(raw, req.Image.MimeType)
		if err != nil {
			respondImageError(w, err)
			return "", nil, false
		}
		return req.Content, image, true
	}

	if hasMediaType(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(imageproc.MaxImageSize + 1<<20); err != nil {
			respondError(w, "File too large", "Image file must be less than 10MB", http.StatusRequestEntityTooLarge, nil)
			return "", nil, false
		}

		content := r.FormValue("content")

		file, header, err := r.FormFile("image")
		if err == http.ErrMissingFile {
			return content, nil, true
		}
		if err != nil {
			respondError(w, "Invalid image", err.Error(), http.StatusBadRequest, nil)
			return "", nil, false
		}
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, imageproc.MaxImageSize+1))
		if err != nil {
			respondError(w, "Invalid image", "Failed to read image upload", http.StatusBadRequest, nil)
			return "", nil, false
		}

		image, err := imageproc.Process(raw, header.Header.Get("Content-Type"))
		if err != nil {
			respondImageError(w, err)
			return "", nil, false
		}
		return content, image, true
	}

	respondError(w, "Unsupported media type", "Use application/json or multipart/form-data",
		http.StatusUnsupportedMediaType, nil)
	return "", nil, false
}

// respondAnalysisError maps analysis failures onto status codes:
// local rate limit, upstream unavailable, and malformed upstream
// response are each surfaced distinctly.
func (h *Handler) respondAnalysisError(w http.ResponseWriter, err error, requestID string) {
	var upstream *gemini.UpstreamError

	switch {
	case errors.Is(err, gemini.ErrRateLimited):
		if h.metrics != nil {
			h.metrics.AnalysesTotal.WithLabelValues("rate_limited").Inc()
		}
		respondError(w, "Rate limit exceeded", "Too many requests. Please wait before trying again.",
			http.StatusTooManyRequests, map[string]any{"retryAfter": 60})

	case errors.As(err, &upstream):
		if h.metrics != nil {
			h.metrics.AnalysesTotal.WithLabelValues("upstream_error").Inc()
			h.metrics.UpstreamErrors.WithLabelValues("unavailable").Inc()
		}
		respondError(w, "Analysis failed", upstream.Message,
			http.StatusBadGateway, map[string]any{"requestId": requestID})

	case errors.Is(err, gemini.ErrInvalidResponse):
		if h.metrics != nil {
			h.metrics.AnalysesTotal.WithLabelValues("invalid_response").Inc()
			h.metrics.UpstreamErrors.WithLabelValues("malformed").Inc()
		}
		respondError(w, "Invalid upstream response", "The AI service returned an unusable reply",
			http.StatusBadGateway, map[string]any{"requestId": requestID})

	default:
		if h.metrics != nil {
			h.metrics.AnalysesTotal.WithLabelValues("error").Inc()
		}
		respondError(w, "Analysis failed", err.Error(),
			http.StatusInternalServerError, map[string]any{"requestId": requestID})
	}
}

func respondImageError(w http.ResponseWriter, err error) {
	var ve *imageproc.ValidationError
	if errors.As(err, &ve) {
		respondError(w, "Image processing failed", ve.Message, http.StatusBadRequest, nil)
		return
	}
	respondError(w, "Image processing failed", err.Error(), http.StatusInternalServerError, nil)
}

func hasMediaType(contentType, want string) bool {
	return len(contentType) >= len(want) && contentType[:len(want)] == want
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a structured error response
func respondError(w http.ResponseWriter, errTitle, message string, statusCode int, extra map[string]any) {
	body := map[string]any{
		"error":   errTitle,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	respondJSON(w, body, statusCode)
}
