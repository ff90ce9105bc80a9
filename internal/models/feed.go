package models

// Comment is a page comment enriched with a sentiment rating. The rating is
// assigned when the comment is built and never stored externally.
type Comment struct {
	Identifier string `json:"identifier"`
	Message    string `json:"message"`
	Rating     string `json:"rating"`
}

// Post is an aggregated page post with its classified comments. Posts are
// built fresh per request and not persisted.
type Post struct {
	Identifier string    `json:"identifier"`
	Content    string    `json:"content"`
	URL        string    `json:"url"`
	Comments   []Comment `json:"comments"`
}

// TrainingSample is one labeled example in the classifier's training corpus.
type TrainingSample struct {
	Content string `json:"content"`
	Outcome string `json:"outcome"`
}
