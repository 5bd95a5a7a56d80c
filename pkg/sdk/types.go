package vault

// SearchResult is one precision search hit.
type SearchResult struct {
	ID        string `json:"id"`
	ReadingID string `json:"reading_id"`
	Text      string `json:"text"`
	Date      string `json:"date"`
	Category  string `json:"category"`
}

// InsightResponse is a generated answer plus the cited reading ids.
type InsightResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// HealthStatus reports backend reachability and credential state.
type HealthStatus struct {
	Status      string `json:"status"`
	Meilisearch bool   `json:"meilisearch"`
	OpenAI      string `json:"openai"` // "configured" or "missing"
}
