package models

// Book is an immutable catalog entry. Identity is the position in the catalog,
// nothing is mutated after load.
//
// Books loaded from the dialogue knowledge base carry free-text fields used
// for term search. Books loaded from the feature catalog additionally carry a
// feature vector used by the narrowing engine.
type Book struct {
	Title    string             `yaml:"title"`
	Authors  string             `yaml:"authors"`
	Year     string             `yaml:"year"`
	Features map[string]float64 `yaml:"features"`
}

// Question pairs the user-facing question text with the feature it discriminates on.
type Question struct {
	Text    string `yaml:"text"`
	Feature string `yaml:"feature"`
}

// Answer is a user's reply to a feature question.
type Answer string

const (
	AnswerYes   Answer = "yes"
	AnswerNo    Answer = "no"
	AnswerMaybe Answer = "maybe"
)

// ScoredBook is a catalog entry with its similarity score against the evidence vector.
type ScoredBook struct {
	Book  Book    `json:"book"`
	Score float64 `json:"score"`
	Index int     `json:"index"`
}
