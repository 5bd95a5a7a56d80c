package precision

import (
	"context"

	"github.com/cayce-vault/vault-api/internal/domain"
)

// Searcher queries the precision (keyword) index.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Hit, error)
}
