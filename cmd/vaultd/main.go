package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cayce-vault/vault-api/internal/config"
	logpkg "github.com/cayce-vault/vault-api/internal/logger"
	"github.com/cayce-vault/vault-api/internal/metrics"
	chiTransport "github.com/cayce-vault/vault-api/internal/transport/chi"
	"github.com/cayce-vault/vault-api/internal/transport/meili"
	openaiGen "github.com/cayce-vault/vault-api/internal/transport/openai"
	"github.com/cayce-vault/vault-api/internal/usecase/health"
	"github.com/cayce-vault/vault-api/internal/usecase/insight"
	"github.com/cayce-vault/vault-api/internal/usecase/precision"
	"github.com/cayce-vault/vault-api/internal/version"
)

func main() {
	// Optional .env for local development; environment wins over the file.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vault API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("meilisearch_url", cfg.Meilisearch.URL),
		zap.String("precision_index", cfg.Precision.Index),
		zap.String("insight_index", cfg.Insight.Index),
		zap.String("model", cfg.Insight.Model),
	)

	metrics.RegisterExternalMetrics()

	// Long-lived external client handles — read-only after construction.
	searchClient := meili.New(&meili.Config{
		URL:       cfg.Meilisearch.URL,
		MasterKey: cfg.Meilisearch.MasterKey,
		Timeout:   time.Duration(cfg.Meilisearch.TimeoutSec) * time.Second,
		Logger:    logger,
	})

	// Probe once at startup. Non-fatal: /health must keep answering with
	// meilisearch=false while the backend is down.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 5*time.Second)
	if err := searchClient.Ping(probeCtx); err != nil {
		logger.Warn("Meilisearch unreachable at startup", zap.Error(err))
	} else {
		logger.Info("Connected to Meilisearch")
	}
	cancelProbe()

	generator := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.Insight.Model,
		Temperature: cfg.Insight.Temperature,
		MaxTokens:   cfg.Insight.MaxTokens,
		Logger:      logger,
	})

	tmpl, err := resolveTemplate(cfg.Insight)
	if err != nil {
		logger.Fatal("Failed to resolve prompt template", zap.Error(err))
	}
	logger.Info("Prompt template selected", zap.String("template", tmpl.Name()))

	precisionSvc := precision.New(searchClient.Index(cfg.Precision.Index, meili.IndexOptions{
		Limit:      cfg.Precision.Limit,
		Attributes: precision.Attributes(),
	}))

	insightIndex := searchClient.Index(cfg.Insight.Index, meili.IndexOptions{
		Limit:      cfg.Insight.Limit,
		Attributes: insight.Attributes(),
		Hybrid: &meili.HybridOptions{
			Embedder:      cfg.Insight.Embedder,
			SemanticRatio: cfg.Insight.SemanticRatio,
		},
	})
	insightSvc := insight.New(insightIndex, generator, insight.Credentials{
		MeilisearchKeySet: cfg.Meilisearch.MasterKey != "",
		OpenAIKeySet:      cfg.OpenAI.APIKey != "",
	}, tmpl).WithOptions(insight.Options{
		AllowDuplicateSources: cfg.Insight.AllowDuplicateSources,
		Disclaimer:            cfg.Insight.Disclaimer,
	})

	healthSvc := health.New(searchClient, cfg.OpenAI.APIKey != "")

	server := chiTransport.NewServer(precisionSvc, insightSvc, healthSvc, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(corsHandler.Handler)
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// resolveTemplate picks the prompt template: config-supplied text wins over
// the built-in name.
func resolveTemplate(cfg config.InsightConfig) (insight.Template, error) {
	if cfg.TemplateText != "" {
		return insight.CustomTemplate(cfg.TemplateText), nil
	}
	tmpl, err := insight.TemplateByName(cfg.Template)
	if err != nil {
		return insight.Template{}, fmt.Errorf("insight.template: %w", err)
	}
	return tmpl, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"detail": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
