package meili

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/cayce-vault/vault-api/internal/domain"
	"github.com/cayce-vault/vault-api/internal/metrics"
)

// Client wraps a Meilisearch connection handle. It is established once at
// process start and shared read-only across requests.
type Client struct {
	manager meilisearch.ServiceManager
	logger  *zap.Logger
}

// Config holds the Meilisearch connection settings.
type Config struct {
	URL       string
	MasterKey string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// New creates a Meilisearch client. No connection is attempted here;
// use Ping to probe reachability.
func New(cfg *Config) *Client {
	opts := []meilisearch.Option{
		meilisearch.WithCustomClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.MasterKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(cfg.MasterKey))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		manager: meilisearch.New(cfg.URL, opts...),
		logger:  logger,
	}
}

// Ping probes the Meilisearch /health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.manager.HealthWithContext(ctx); err != nil {
		return fmt.Errorf("meilisearch health: %w", err)
	}
	return nil
}

// HybridOptions enables hybrid (keyword + embedding) ranking for an index.
// The embedder name must match one configured on the Meilisearch index.
type HybridOptions struct {
	Embedder      string
	SemanticRatio float64
}

// IndexOptions fixes the query shape for one index: hit limit, the attribute
// set to retrieve, and optional hybrid ranking.
type IndexOptions struct {
	Limit      int64
	Attributes []string
	Hybrid     *HybridOptions
}

// Index is a searcher bound to a single Meilisearch index with fixed options.
type Index struct {
	idx    meilisearch.IndexManager
	uid    string
	opts   IndexOptions
	logger *zap.Logger
}

// Index creates a searcher for the named index.
func (c *Client) Index(uid string, opts IndexOptions) *Index {
	return &Index{
		idx:    c.manager.Index(uid),
		uid:    uid,
		opts:   opts,
		logger: c.logger,
	}
}

// Search forwards the query verbatim and converts raw hits into domain hits.
// Ranking order is preserved. Empty queries are forwarded as-is; Meilisearch
// tolerates them.
func (i *Index) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	req := &meilisearch.SearchRequest{
		Limit:                i.opts.Limit,
		AttributesToRetrieve: i.opts.Attributes,
	}
	if i.opts.Hybrid != nil {
		req.Hybrid = &meilisearch.SearchRequestHybrid{
			Embedder:      i.opts.Hybrid.Embedder,
			SemanticRatio: i.opts.Hybrid.SemanticRatio,
		}
	}

	start := time.Now()

	resp, err := i.idx.SearchWithContext(ctx, query, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(i.uid, "error").Inc()
		return nil, fmt.Errorf("search index %s: %v: %w", i.uid, err, domain.ErrSearchUnavailable)
	}

	metrics.SearchRequestsTotal.WithLabelValues(i.uid, "success").Inc()
	metrics.SearchRequestDuration.WithLabelValues(i.uid).Observe(duration.Seconds())

	hits := make([]domain.Hit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		hits = append(hits, hitFromRaw(raw))
	}

	i.logger.Debug("meilisearch query",
		zap.String("index", i.uid),
		zap.Int("hits", len(hits)),
		zap.Duration("latency", duration),
	)

	return hits, nil
}

// hitFromRaw flattens a raw hit into string attributes. Scalar values are
// coerced to strings (document ids are often numeric); nested values are
// dropped — the fixed attribute sets never request them.
func hitFromRaw(raw interface{}) domain.Hit {
	fields := make(map[string]string)
	m, ok := raw.(map[string]interface{})
	if !ok {
		return domain.NewHit(fields)
	}
	for k, v := range m {
		switch t := v.(type) {
		case string:
			fields[k] = t
		case float64:
			fields[k] = formatNumber(t)
		case bool:
			fields[k] = strconv.FormatBool(t)
		}
	}
	return domain.NewHit(fields)
}

// formatNumber renders JSON numbers without a trailing ".0" for integers.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
