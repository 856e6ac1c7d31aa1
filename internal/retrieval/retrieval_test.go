package retrieval_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/bookinator/internal/catalog"
	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
	"github.com/myrjola/bookinator/internal/retrieval"
	"github.com/myrjola/bookinator/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

type fakeWebSearcher struct {
	results []models.SearchResult
	err     error
	queries []string
}

func (f *fakeWebSearcher) TextSearch(_ context.Context, query string, _ int) ([]models.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func testStore() *catalog.Store {
	books := []models.Book{
		{Title: "Sonar Kella", Authors: "Satyajit Ray", Year: "1971"},
		{Title: "Chander Pahar", Authors: "Bibhutibhushan Bandyopadhyay", Year: "1937"},
		{Title: "Professor Shonku", Authors: "Satyajit Ray", Year: "1965"},
	}
	return catalog.New(books, nil, nil)
}

func TestAdapter_Search_localTermOverlap(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	web := &fakeWebSearcher{}
	adapter := retrieval.NewAdapter(testStore(), web, logger)

	results := adapter.Search(context.Background(), "Satyajit Ray Sonar", 5, 0)

	// "Sonar Kella" matches all three terms, "Professor Shonku" two; Chander Pahar none.
	require.Len(t, results, 2)
	require.Equal(t, "Sonar Kella", results[0].Title)
	require.Equal(t, "Professor Shonku", results[1].Title)
	require.Equal(t, "Author: Satyajit Ray, Year: 1971", results[0].Snippet)
	require.Equal(t, "Local Database", results[0].Source)
}

func TestAdapter_Search_tiesKeepCatalogOrder(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	adapter := retrieval.NewAdapter(testStore(), &fakeWebSearcher{}, logger)

	results := adapter.Search(context.Background(), "ray", 5, 0)

	require.Len(t, results, 2)
	require.Equal(t, "Sonar Kella", results[0].Title)
	require.Equal(t, "Professor Shonku", results[1].Title)
}

func TestAdapter_Search_localLimit(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	adapter := retrieval.NewAdapter(testStore(), &fakeWebSearcher{}, logger)

	results := adapter.Search(context.Background(), "ray", 1, 0)

	require.Len(t, results, 1)
	require.Equal(t, "Sonar Kella", results[0].Title)
}

func TestAdapter_Search_mergesWebAfterLocal(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	web := &fakeWebSearcher{
		results: []models.SearchResult{
			{Title: "Feluda - Wikipedia", Snippet: "Bengali detective", Source: "DuckDuckGo", URL: "https://example.com"},
		},
	}
	adapter := retrieval.NewAdapter(testStore(), web, logger)

	results := adapter.Search(context.Background(), "ray", 5, 3)

	require.Len(t, results, 3)
	require.Equal(t, "Local Database", results[0].Source)
	require.Equal(t, "Local Database", results[1].Source)
	require.Equal(t, "DuckDuckGo", results[2].Source)
	require.Equal(t, []string{"ray"}, web.queries)
}

func TestAdapter_Search_webFailureDegradesToErrorRecord(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	web := &fakeWebSearcher{err: errors.NewSentinel("rate limited")}
	adapter := retrieval.NewAdapter(testStore(), web, logger)

	results := adapter.Search(context.Background(), "nothing matches locally", 5, 3)

	require.Len(t, results, 1)
	require.Equal(t, "rate limited", results[0].Err)
}

func TestAdapter_Search_nilWebCollaborator(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	adapter := retrieval.NewAdapter(testStore(), nil, logger)

	results := adapter.Search(context.Background(), "ray", 5, 3)

	require.Equal(t, "search client not initialized", results[len(results)-1].Err)
}
