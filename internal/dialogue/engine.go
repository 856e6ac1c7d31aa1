// Package dialogue drives the free-text guessing game: a turn-based state
// machine around the completion collaborator that merges constraints across
// turns, relays search requests through the retrieval adapter, and forces a
// final top-3 answer once the question budget runs out.
package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/bookinator/internal/ai"
	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
	"github.com/myrjola/bookinator/internal/parser"
)

// Completer is the completion-service collaborator.
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// Searcher is the retrieval collaborator for the search sub-protocol.
type Searcher interface {
	Search(ctx context.Context, query string, localLimit, webLimit int) []models.SearchResult
}

const (
	// finalTurnThreshold is the assistant-turn count at which the next chat
	// call forces the final answer (question 20, 0-indexed).
	finalTurnThreshold = 19
	// searchEligibleTurn gates the search sub-protocol. Early searches run on
	// almost no context and stall the opening turns, so they are suppressed.
	searchEligibleTurn = 5
	// maxLiveConstraints caps how many negative constraints go into the
	// context. Older constraints stay recorded but are not sent.
	maxLiveConstraints = 5

	localSearchLimit = 5
	webSearchLimit   = 3
	topSearchResults = 5
)

// Engine holds the conversation state for one session. It is not safe for
// concurrent use; every session owns exactly one engine.
type Engine struct {
	completer Completer
	retriever Searcher
	logger    *slog.Logger

	history       []models.Message
	rejectedBooks []string
	constraints   []string
	turnCount     int
	gameOver      bool
}

func NewEngine(completer Completer, retriever Searcher, logger *slog.Logger) *Engine {
	return &Engine{
		completer:     completer,
		retriever:     retriever,
		logger:        logger.With("source", "dialogue.Engine"),
		history:       nil,
		rejectedBooks: nil,
		constraints:   nil,
		turnCount:     0,
		gameOver:      false,
	}
}

// Start resets the engine and plays the synthetic opening message so the
// first reply is already a question.
func (e *Engine) Start(ctx context.Context) models.TurnResult {
	e.Reset()
	return e.Chat(ctx, startMessage)
}

// Reset clears all conversation state. A reset engine behaves identically to
// a freshly constructed one.
func (e *Engine) Reset() {
	e.history = nil
	e.rejectedBooks = nil
	e.constraints = nil
	e.turnCount = 0
	e.gameOver = false
}

// TurnCount returns the number of completed assistant turns.
func (e *Engine) TurnCount() int {
	return e.turnCount
}

// GameOver reports whether a final-candidates block has been produced.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// RejectBook excludes a guessed title from future guesses.
func (e *Engine) RejectBook(title string) {
	if title = strings.TrimSpace(title); title != "" {
		e.rejectedBooks = append(e.rejectedBooks, title)
	}
}

// Chat plays one turn: build the outbound context, invoke the completion
// collaborator (twice when the search sub-protocol triggers), parse the reply,
// and update state. It never fails; collaborator errors surface as a readable
// reply so the game continues on the next turn.
func (e *Engine) Chat(ctx context.Context, userMessage string) models.TurnResult {
	messages := make([]models.Message, 0, len(e.history)+3)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: systemPrompt})
	messages = append(messages, e.history...)

	// A negation in the user's message means the premise of the previous
	// question is false. This is a blunt substring heuristic that can misfire
	// on phrases like "it's not unusual", which is accepted.
	if lastAssistant := e.lastAssistantMessage(); lastAssistant != "" && containsNegation(userMessage) {
		e.constraints = append(e.constraints, fmt.Sprintf("User denied: '%s'", lastAssistant))
	}

	if block := e.constraintBlock(); block != "" {
		messages = append(messages, models.Message{Role: models.RoleSystem, Content: block})
	}

	content := userMessage
	if e.turnCount >= finalTurnThreshold {
		content += finalTurnPrompt
	}
	messages = append(messages, models.Message{Role: models.RoleUser, Content: content})

	reply := e.complete(ctx, messages)
	turn := parser.Parse(reply)

	// Game over takes precedence over everything, including a pending search.
	if turn.FinalCandidates != nil {
		e.gameOver = true
		return models.TurnResult{FinalCandidates: turn.FinalCandidates, GameOver: true} //nolint:exhaustruct // only candidates
	}

	var (
		searchQuery   string
		searchResults []models.SearchResult
	)
	if turn.SearchQuery != "" {
		if e.turnCount >= searchEligibleTurn {
			searchQuery = turn.SearchQuery
			searchResults = e.retriever.Search(ctx, searchQuery, localSearchLimit, webSearchLimit)

			messages = append(messages,
				models.Message{Role: models.RoleAssistant, Content: reply},
				models.Message{Role: models.RoleUser, Content: formatSearchContext(searchQuery, searchResults)},
			)
			// The revised reply supersedes the first one for all further parsing.
			reply = e.complete(ctx, messages)
			turn = parser.Parse(reply)

			if turn.FinalCandidates != nil {
				e.gameOver = true
				return models.TurnResult{FinalCandidates: turn.FinalCandidates, GameOver: true} //nolint:exhaustruct // only candidates
			}
		} else {
			// Known latency-avoidance tradeoff: the request is dropped and the
			// raw text returned as-is rather than re-querying.
			e.logger.Debug("suppressing early search request",
				slog.Int("turn", e.turnCount), slog.String("query", turn.SearchQuery))
		}
	}

	e.history = append(e.history,
		models.Message{Role: models.RoleUser, Content: userMessage},
		models.Message{Role: models.RoleAssistant, Content: reply},
	)
	e.turnCount++

	return models.TurnResult{
		Response:        turn.DisplayText,
		InfoAside:       turn.InfoAside,
		SearchQuery:     searchQuery,
		SearchResults:   searchResults,
		Guess:           turn.Guess,
		FinalCandidates: nil,
		GameOver:        false,
	}
}

// complete invokes the completion collaborator and converts any failure into
// a synthetic reply that flows through the normal parser and history path.
// Successful replies are cleaned up before parsing.
func (e *Engine) complete(ctx context.Context, messages []models.Message) string {
	reply, err := e.completer.Complete(ctx, messages)
	if err != nil {
		e.logger.Warn("completion failed", errors.SlogError(err))
		switch {
		case errors.Is(err, ai.ErrTimeout):
			return "Error: I'm thinking too hard and timed out. Please try again."
		case errors.Is(err, ai.ErrUnreachable):
			return "Error: Cannot connect to the completion service. Is it running?"
		default:
			return fmt.Sprintf("Error: %s", err)
		}
	}
	return parser.CleanReply(reply)
}

func (e *Engine) lastAssistantMessage() string {
	for i := len(e.history) - 1; i >= 0; i-- {
		if e.history[i].Role == models.RoleAssistant {
			return e.history[i].Content
		}
	}
	return ""
}

// constraintBlock renders the rejected books and the live tail of the
// negative constraints as one extra system message, or "" when empty.
func (e *Engine) constraintBlock() string {
	var block strings.Builder
	if len(e.rejectedBooks) > 0 {
		fmt.Fprintf(&block, "\n[REJECTED BOOKS] (Do not guess these): %s", strings.Join(e.rejectedBooks, ", "))
	}
	if len(e.constraints) > 0 {
		live := e.constraints
		if len(live) > maxLiveConstraints {
			live = live[len(live)-maxLiveConstraints:]
		}
		fmt.Fprintf(&block, "\n[NEGATIVE CONSTRAINTS] (Avoid these): %s", strings.Join(live, "; "))
	}
	return block.String()
}

func containsNegation(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "no") || strings.Contains(lower, "not")
}

// formatSearchContext renders the top merged results as a numbered,
// source-tagged list embedded in a synthetic user message.
func formatSearchContext(query string, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\nSearch results for '%s':\n", query)
	for i, result := range results {
		if i == topSearchResults {
			break
		}
		source := result.Source
		if source == "" {
			source = "Web"
		}
		if result.Err != "" {
			fmt.Fprintf(&b, "%d. [%s] search error: %s\n", i+1, source, result.Err)
			continue
		}
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, source, result.Title, result.Snippet)
	}
	b.WriteString("\nNow continue.")
	return b.String()
}
