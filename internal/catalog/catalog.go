// Package catalog holds the immutable in-memory knowledge store: the book
// knowledge base used for term search and, for the deterministic narrowing
// path, the feature-annotated books with their question catalog.
//
// Everything is loaded once at startup and never mutated, so the store is safe
// for unsynchronized concurrent reads across sessions.
package catalog

import (
	"slices"

	"github.com/myrjola/bookinator/internal/models"
)

type Store struct {
	books        []models.Book
	featureBooks []models.Book
	questions    []models.Question
	featureSpace []string
}

// New builds a store from already loaded catalogs. The feature space is the
// sorted set of all feature ids referenced by the question catalog. The order
// is fixed here and stays stable for the process lifetime since it indexes
// parallel vectors in the narrowing engine.
func New(books, featureBooks []models.Book, questions []models.Question) *Store {
	var featureSpace []string
	for _, q := range questions {
		if q.Feature != "" && !slices.Contains(featureSpace, q.Feature) {
			featureSpace = append(featureSpace, q.Feature)
		}
	}
	slices.Sort(featureSpace)

	return &Store{
		books:        books,
		featureBooks: featureBooks,
		questions:    questions,
		featureSpace: featureSpace,
	}
}

// Books returns the knowledge-base books used for term search.
func (s *Store) Books() []models.Book {
	return s.books
}

// FeatureBooks returns the feature-annotated books used by the narrowing engine.
func (s *Store) FeatureBooks() []models.Book {
	return s.featureBooks
}

// Questions returns the question catalog.
func (s *Store) Questions() []models.Question {
	return s.questions
}

// FeatureSpace returns the fixed sorted list of feature ids.
func (s *Store) FeatureSpace() []string {
	return s.featureSpace
}

// QuestionFor returns the question text for a feature id.
func (s *Store) QuestionFor(feature string) (models.Question, bool) {
	for _, q := range s.questions {
		if q.Feature == feature {
			return q, true
		}
	}
	return models.Question{}, false
}
