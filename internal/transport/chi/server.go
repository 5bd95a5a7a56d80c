package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cayce-vault/vault-api/internal/domain"
	healthuc "github.com/cayce-vault/vault-api/internal/usecase/health"
)

// PrecisionService runs keyword search.
type PrecisionService interface {
	Search(ctx context.Context, query string) ([]domain.Reading, error)
}

// InsightService runs hybrid search plus generation.
type InsightService interface {
	Answer(ctx context.Context, query string) (domain.Insight, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers for the vault API.
type Server struct {
	precision PrecisionService
	insight   InsightService
	health    HealthService
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	precision PrecisionService,
	insight InsightService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	return &Server{
		precision: precision,
		insight:   insight,
		health:    health,
		logger:    logger,
	}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/search/precision", s.PrecisionSearch)
	r.Post("/search/insight", s.InsightSearch)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Wire shapes. The detail field deliberately carries the underlying upstream
// message; the frontend surfaces it verbatim.
type searchRequest struct {
	Query string `json:"query"`
}

type searchResult struct {
	ID        string `json:"id"`
	ReadingID string `json:"reading_id"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Category  string `json:"category"`
}

type insightResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Meilisearch bool   `json:"meilisearch"`
	OpenAI      string `json:"openai"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// PrecisionSearch handles POST /search/precision.
func (s *Server) PrecisionSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	readings, err := s.precision.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err, "Meilisearch error")
		return
	}

	items := make([]searchResult, len(readings))
	for i, rd := range readings {
		items[i] = searchResult{
			ID:        rd.ID,
			ReadingID: rd.ReadingID,
			Text:      rd.Text,
			Date:      rd.Date,
			Category:  rd.Category,
		}
	}

	writeJSON(w, http.StatusOK, items)
}

// InsightSearch handles POST /search/insight.
func (s *Server) InsightSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(w, r)
	if !ok {
		return
	}

	insight, err := s.insight.Answer(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err, "Insight error")
		return
	}

	sources := insight.Sources
	if sources == nil {
		sources = []string{}
	}

	writeJSON(w, http.StatusOK, insightResponse{
		Answer:  insight.Answer,
		Sources: sources,
	})
}

// HealthCheck handles GET /health. Always 200; probe failures surface as
// meilisearch=false.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	writeJSON(w, http.StatusOK, healthResponse{
		Status:      report.Status,
		Meilisearch: report.Meilisearch,
		OpenAI:      string(report.OpenAI),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeSearchRequest parses the request body. An absent query field decodes
// to "" and proceeds; only a malformed body is rejected.
func (s *Server) decodeSearchRequest(w http.ResponseWriter, r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return searchRequest{}, false
	}
	return req, true
}

// handleDomainError maps tagged domain failures onto the fixed wire contract:
// a 500 whose detail names the failing credential or carries the upstream
// message under the operation's prefix.
func (s *Server) handleDomainError(w http.ResponseWriter, err error, prefix string) {
	s.logger.Warn("domain error", zap.Error(err))

	var mc *domain.MissingCredentialError
	if errors.As(err, &mc) {
		writeError(w, http.StatusInternalServerError, "Missing "+mc.Name+" in environment")
		return
	}

	writeError(w, http.StatusInternalServerError, prefix+": "+err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
