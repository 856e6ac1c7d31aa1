package models

// Message is one turn of the conversation sent to the completion collaborator.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Guess is the structured guess the completion collaborator emits when it is
// confident enough to name the book.
type Guess struct {
	Confidence string   `json:"confidence"`
	Book       string   `json:"book"`
	Reasoning  string   `json:"reasoning"`
	Similar    []string `json:"similar"`
}

// ParsedTurn is the typed view of one completion reply. At most one of Guess
// and FinalCandidates is set. InfoAside and SearchQuery are orthogonal to both.
type ParsedTurn struct {
	DisplayText     string
	Guess           *Guess
	InfoAside       string
	FinalCandidates []string
	SearchQuery     string
}

// SearchResult is one entry returned by the retrieval adapter. Err is set
// instead of the content fields when the web collaborator failed.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
	Err     string `json:"error,omitempty"`
}

// TurnResult is the flat record a dialogue engine returns for one chat turn.
type TurnResult struct {
	Response        string         `json:"response"`
	InfoAside       string         `json:"info_aside,omitempty"`
	SearchQuery     string         `json:"search_query,omitempty"`
	SearchResults   []SearchResult `json:"search_results,omitempty"`
	Guess           *Guess         `json:"guess,omitempty"`
	FinalCandidates []string       `json:"final_candidates,omitempty"`
	GameOver        bool           `json:"game_over"`
}
