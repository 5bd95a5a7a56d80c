package domain

// Reading is one precision search result, shaped for the API response.
// All fields are sourced from search index attributes; Date and Category
// stay empty when the index has no value for them.
type Reading struct {
	ID        string
	ReadingID string
	Text      string
	Date      string
	Category  string
}

// Insight is a generated answer plus the reading ids that supplied context,
// in first-occurrence order.
type Insight struct {
	Answer  string
	Sources []string
}
