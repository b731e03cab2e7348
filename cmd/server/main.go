package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zombar/factcheck/internal/api"
	"github.com/zombar/factcheck/internal/gemini"
	"github.com/zombar/factcheck/internal/ratelimit"
	"github.com/zombar/factcheck/pkg/logging"
	"github.com/zombar/factcheck/pkg/metrics"
	"github.com/zombar/factcheck/pkg/tracing"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded environment from .env")
	}

	logger.Info("factcheck service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("factcheck")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Get default values from environment variables, with fallbacks
	portDefault := getEnv("PORT", "8080")
	geminiURLDefault := getEnv("GEMINI_API_URL", gemini.DefaultAPIURL)
	geminiKeyDefault := getEnv("GEMINI_API_KEY", "")
	apiRateDefault := getEnvInt("MAX_REQUESTS_PER_HOUR", 100)
	geminiRateDefault := getEnvInt("GEMINI_REQUESTS_PER_MINUTE", gemini.DefaultRequestsPerMinute)

	var (
		port       = flag.String("port", portDefault, "Server port (env: PORT)")
		geminiURL  = flag.String("gemini-url", geminiURLDefault, "Gemini API URL (env: GEMINI_API_URL)")
		geminiKey  = flag.String("gemini-key", geminiKeyDefault, "Gemini API key (env: GEMINI_API_KEY)")
		apiRate    = flag.Int("max-requests-per-hour", apiRateDefault, "HTTP rate limit per hour (env: MAX_REQUESTS_PER_HOUR)")
		geminiRate = flag.Int("gemini-requests-per-minute", geminiRateDefault, "Gemini rate limit per minute (env: GEMINI_REQUESTS_PER_MINUTE)")
	)
	flag.Parse()

	// Initialize Gemini client with its own request window
	client, err := gemini.NewWithLimiter(*geminiURL, *geminiKey,
		ratelimit.New(*geminiRate, time.Minute))
	if err != nil {
		logger.Error("failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}

	// HTTP-layer rate limit, independent of the Gemini window
	apiLimiter := ratelimit.New(*apiRate, time.Hour)

	businessMetrics := metrics.NewBusinessMetrics("factcheck")

	apiHandler := api.NewHandler(client, apiLimiter, businessMetrics)

	// Wrap handler with middleware chain: HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware("factcheck")(apiHandler),
	)

	// Write timeout leaves headroom over the 30s upstream call
	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("factcheck service starting",
			"port", *port,
			"gemini_url", *geminiURL,
			"max_requests_per_hour", *apiRate,
			"gemini_requests_per_minute", *geminiRate,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
