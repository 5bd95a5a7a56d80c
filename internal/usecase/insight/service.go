package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/cayce-vault/vault-api/internal/domain"
)

// NoMatchAnswer is returned when search yields no usable context.
// The model is not called in that case.
const NoMatchAnswer = "No relevant readings found for this query."

// Chunk index attributes.
const (
	AttrReadingID = "reading_id"
	AttrText      = "text"
)

// unknownSource labels hits whose reading id attribute is absent.
const unknownSource = "Unknown"

// Attributes returns the attribute set requested from the chunk index.
func Attributes() []string {
	return []string{AttrReadingID, AttrText}
}

// Credentials reports which upstream credentials were present at startup.
// Both are required before any external call is attempted.
type Credentials struct {
	MeilisearchKeySet bool
	OpenAIKeySet      bool
}

// Options captures the behavior knobs that diverged across upstream prompt
// revisions.
type Options struct {
	// AllowDuplicateSources disables reading-id dedup: every hit appends
	// both a source entry and a context chunk.
	AllowDuplicateSources bool
	// Disclaimer, when set, is appended to every generated answer.
	Disclaimer string
}

// Service answers a query from hybrid search context via a single generation
// call. The two outbound calls are sequential: generation needs the context.
type Service struct {
	index Searcher
	model Generator
	creds Credentials
	tmpl  Template
	opts  Options
}

// New creates an insight search service.
func New(index Searcher, model Generator, creds Credentials, tmpl Template) *Service {
	return &Service{index: index, model: model, creds: creds, tmpl: tmpl}
}

// WithOptions overrides the revision-divergent behavior knobs.
func (s *Service) WithOptions(opts Options) *Service {
	s.opts = opts
	return s
}

// Answer runs search, assembles the context block, and generates a response.
func (s *Service) Answer(ctx context.Context, query string) (domain.Insight, error) {
	// Credential gate: fail before any external call.
	if !s.creds.OpenAIKeySet {
		return domain.Insight{}, domain.NewMissingCredential("OPENAI_API_KEY")
	}
	if !s.creds.MeilisearchKeySet {
		return domain.Insight{}, domain.NewMissingCredential("MEILISEARCH_MASTER_KEY")
	}

	hits, err := s.index.Search(ctx, query)
	if err != nil {
		return domain.Insight{}, fmt.Errorf("insight search: %w", err)
	}

	sources, contextBlock := buildContext(hits, s.opts.AllowDuplicateSources)

	if strings.TrimSpace(contextBlock) == "" {
		return domain.Insight{Answer: NoMatchAnswer, Sources: []string{}}, nil
	}

	answer, err := s.model.Generate(ctx, s.tmpl.Render(contextBlock, query))
	if err != nil {
		return domain.Insight{}, fmt.Errorf("generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if s.opts.Disclaimer != "" {
		answer += "\n\n" + s.opts.Disclaimer
	}

	return domain.Insight{Answer: answer, Sources: sources}, nil
}

// buildContext walks hits in ranking order. With dedup (the default), a
// reading id contributes one source entry and one context chunk, on first
// occurrence; with duplicates allowed, every hit contributes both.
// Chunks are tagged "[reading-id] text" and separated by blank lines.
func buildContext(hits []domain.Hit, allowDuplicates bool) ([]string, string) {
	sources := make([]string, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	var b strings.Builder

	for _, hit := range hits {
		rid := hit.FieldOr(AttrReadingID, unknownSource)
		if !allowDuplicates {
			if _, ok := seen[rid]; ok {
				continue
			}
			seen[rid] = struct{}{}
		}
		sources = append(sources, rid)
		fmt.Fprintf(&b, "[%s] %s\n\n", rid, hit.Field(AttrText))
	}

	return sources, b.String()
}
