package meili

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cayce-vault/vault-api/internal/domain"
	"github.com/cayce-vault/vault-api/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterExternalMetrics()
	os.Exit(m.Run())
}

type searchRequestBody struct {
	Q                    string   `json:"q"`
	Limit                int64    `json:"limit"`
	AttributesToRetrieve []string `json:"attributesToRetrieve"`
	Hybrid               *struct {
		Embedder      string  `json:"embedder"`
		SemanticRatio float64 `json:"semanticRatio"`
	} `json:"hybrid"`
}

// stubMeilisearch serves /health and a single index search endpoint with
// canned hits, recording the last search request body.
func stubMeilisearch(t *testing.T, uid string, hits []map[string]any, last *searchRequestBody) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"available"}`))
	})
	mux.HandleFunc("/indexes/"+uid+"/search", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(last); err != nil {
			t.Errorf("decode search request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"hits":               hits,
			"estimatedTotalHits": len(hits),
			"offset":             0,
			"limit":              8,
			"processingTimeMs":   1,
			"query":              last.Q,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode search response: %v", err)
		}
	})
	return httptest.NewServer(mux)
}

func newTestClient(url string) *Client {
	return New(&Config{URL: url, MasterKey: "test-master-key", Timeout: 5 * time.Second})
}

func TestPing(t *testing.T) {
	srv := stubMeilisearch(t, "cayce_vault", nil, &searchRequestBody{})
	defer srv.Close()

	if err := newTestClient(srv.URL).Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	if err := newTestClient(srv.URL).Ping(context.Background()); err == nil {
		t.Error("expected error for unreachable instance")
	}
}

func TestSearch_ConvertsHits(t *testing.T) {
	var last searchRequestBody
	srv := stubMeilisearch(t, "cayce_vault", []map[string]any{
		{"id": float64(42), "reading_id": "281-3", "reading_text": "Prayer heals...", "archived": false},
		{"reading_id": "294-12", "reading_text": "Mind is the builder."},
	}, &last)
	defer srv.Close()

	idx := newTestClient(srv.URL).Index("cayce_vault", IndexOptions{
		Limit:      10,
		Attributes: []string{"id", "reading_id", "reading_text"},
	})

	hits, err := idx.Search(context.Background(), "healing")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	if got := hits[0].Field("id"); got != "42" {
		t.Errorf("expected numeric id coerced to 42, got %q", got)
	}
	if got := hits[0].Field("reading_id"); got != "281-3" {
		t.Errorf("expected reading_id 281-3, got %q", got)
	}
	if got := hits[0].Field("archived"); got != "false" {
		t.Errorf("expected bool coerced to false, got %q", got)
	}
	if got := hits[1].Field("reading_id"); got != "294-12" {
		t.Errorf("ranking order not preserved, got %q", got)
	}
}

func TestSearch_SendsFixedOptions(t *testing.T) {
	var last searchRequestBody
	srv := stubMeilisearch(t, "cayce_chunks", nil, &last)
	defer srv.Close()

	idx := newTestClient(srv.URL).Index("cayce_chunks", IndexOptions{
		Limit:      8,
		Attributes: []string{"reading_id", "text"},
		Hybrid:     &HybridOptions{Embedder: "OpenAI_Embedder", SemanticRatio: 0.5},
	})

	if _, err := idx.Search(context.Background(), "dreams"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if last.Q != "dreams" {
		t.Errorf("expected query forwarded verbatim, got %q", last.Q)
	}
	if last.Limit != 8 {
		t.Errorf("expected limit 8, got %d", last.Limit)
	}
	if len(last.AttributesToRetrieve) != 2 || last.AttributesToRetrieve[0] != "reading_id" {
		t.Errorf("unexpected attributes %v", last.AttributesToRetrieve)
	}
	if last.Hybrid == nil {
		t.Fatal("expected hybrid options in request")
	}
	if last.Hybrid.Embedder != "OpenAI_Embedder" || last.Hybrid.SemanticRatio != 0.5 {
		t.Errorf("unexpected hybrid options %+v", last.Hybrid)
	}
}

func TestSearch_ErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Index cayce_vault not found.","code":"index_not_found","type":"invalid_request","link":""}`))
	}))
	defer srv.Close()

	idx := newTestClient(srv.URL).Index("cayce_vault", IndexOptions{Limit: 10})

	_, err := idx.Search(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrSearchUnavailable) {
		t.Errorf("expected ErrSearchUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "cayce_vault") {
		t.Errorf("expected index named in error, got %q", err.Error())
	}
}

func TestHitFromRaw_NonObject(t *testing.T) {
	h := hitFromRaw("not an object")
	if h.Has("id") {
		t.Error("expected empty hit for non-object raw value")
	}
}

func TestHitFromRaw_DropsNested(t *testing.T) {
	h := hitFromRaw(map[string]interface{}{
		"reading_id": "281-3",
		"_geo":       map[string]interface{}{"lat": 1.0},
		"tags":       []interface{}{"a"},
	})
	if !h.Has("reading_id") {
		t.Error("expected scalar attribute kept")
	}
	if h.Has("_geo") || h.Has("tags") {
		t.Error("expected nested values dropped")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{42, "42"},
		{-3, "-3"},
		{0, "0"},
		{2.5, "2.5"},
	}
	for _, c := range cases {
		if got := formatNumber(c.in); got != c.want {
			t.Errorf("formatNumber(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}
