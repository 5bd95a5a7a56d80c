package insight

import (
	"context"

	"github.com/cayce-vault/vault-api/internal/domain"
)

// Searcher queries the hybrid (keyword + embedding) chunk index.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Hit, error)
}

// Generator produces a completion for a composed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
