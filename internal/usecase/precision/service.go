package precision

import (
	"context"
	"fmt"

	"github.com/cayce-vault/vault-api/internal/domain"
)

// Index attributes. AttrID is not in the retrieved set; documents that carry
// their own id surface it anyway, and the mapping falls back to the reading id.
const (
	AttrID        = "id"
	AttrReadingID = "reading_id"
	AttrText      = "reading_text"
	AttrDate      = "date"
	AttrCategory  = "category"
)

// Attributes returns the attribute set requested from the precision index.
func Attributes() []string {
	return []string{AttrReadingID, AttrText, AttrDate, AttrCategory}
}

// Service maps keyword search hits into readings. Relevance order is
// preserved; no re-sorting, no retries.
type Service struct {
	index Searcher
}

// New creates a precision search service.
func New(index Searcher) *Service {
	return &Service{index: index}
}

// Search forwards the query verbatim and maps each hit to a Reading.
// Empty queries are forwarded too; the index tolerates them.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Reading, error) {
	hits, err := s.index.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("precision search: %w", err)
	}

	readings := make([]domain.Reading, 0, len(hits))
	for _, hit := range hits {
		readings = append(readings, domain.Reading{
			ID:        hit.FieldOr(AttrID, hit.Field(AttrReadingID)),
			ReadingID: hit.Field(AttrReadingID),
			Text:      hit.Field(AttrText),
			Date:      hit.Field(AttrDate),
			Category:  hit.Field(AttrCategory),
		})
	}

	return readings, nil
}
