// Package retrieval merges local knowledge-base hits with web search results.
// Local knowledge is trusted over the open web, so local results come first.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/myrjola/bookinator/internal/catalog"
	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
)

const localSource = "Local Database"

// WebSearcher is the external web-search collaborator.
type WebSearcher interface {
	TextSearch(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

type Adapter struct {
	store  *catalog.Store
	web    WebSearcher
	logger *slog.Logger
}

// NewAdapter creates a retrieval adapter. web may be nil when no search
// collaborator is configured; web lookups then degrade to an error record.
func NewAdapter(store *catalog.Store, web WebSearcher, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		web:    web,
		logger: logger.With("source", "retrieval.Adapter"),
	}
}

// Search returns local term-overlap matches followed by web results. It is
// stateless per call and never fails: collaborator errors become an
// error-tagged record in the result list.
func (a *Adapter) Search(ctx context.Context, query string, localLimit, webLimit int) []models.SearchResult {
	results := a.searchLocal(query, localLimit)
	return append(results, a.searchWeb(ctx, query, webLimit)...)
}

// searchLocal scores each catalog entry by the count of query terms occurring
// in its title and authors text. Zero-score entries are dropped and ties keep
// catalog order.
func (a *Adapter) searchLocal(query string, limit int) []models.SearchResult {
	books := a.store.Books()
	if len(books) == 0 {
		return nil
	}

	terms := strings.Fields(strings.ToLower(query))

	type match struct {
		book  models.Book
		score int
	}
	var matches []match
	for _, book := range books {
		text := strings.ToLower(book.Title + " " + book.Authors)
		score := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, match{book: book, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]models.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = models.SearchResult{ //nolint:exhaustruct // no URL for local entries
			Title:   m.book.Title,
			Snippet: fmt.Sprintf("Author: %s, Year: %s", m.book.Authors, m.book.Year),
			Source:  localSource,
		}
	}
	return results
}

func (a *Adapter) searchWeb(ctx context.Context, query string, limit int) []models.SearchResult {
	if a.web == nil {
		return []models.SearchResult{{Err: "search client not initialized"}} //nolint:exhaustruct // error record
	}

	results, err := a.web.TextSearch(ctx, query, limit)
	if err != nil {
		a.logger.Warn("web search failed", errors.SlogError(err))
		return []models.SearchResult{{Err: err.Error()}} //nolint:exhaustruct // error record
	}
	return results
}
