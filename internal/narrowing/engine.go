// Package narrowing is the deterministic counterpart to the dialogue engine.
// It keeps a per-session evidence vector over a fixed feature space and picks
// the next question with a greedy binary-variance heuristic.
package narrowing

import (
	"math"
	"sort"

	"github.com/myrjola/bookinator/internal/catalog"
	"github.com/myrjola/bookinator/internal/models"
)

// Engine narrows the feature catalog by accumulated yes/no/maybe evidence.
// One engine per session; the evidence vector is never shared.
type Engine struct {
	store       *catalog.Store
	features    []string
	featureIdx  map[string]int
	bookVectors [][]float64

	evidence []float64
	asked    map[string]bool
}

// NewEngine builds the book matrix once against the store's fixed feature
// space and starts with a neutral evidence vector.
func NewEngine(store *catalog.Store) *Engine {
	features := store.FeatureSpace()
	featureIdx := make(map[string]int, len(features))
	for i, feature := range features {
		featureIdx[feature] = i
	}

	books := store.FeatureBooks()
	bookVectors := make([][]float64, len(books))
	for i, book := range books {
		vector := make([]float64, len(features))
		for feature, value := range book.Features {
			if idx, ok := featureIdx[feature]; ok {
				vector[idx] = value
			}
		}
		bookVectors[i] = vector
	}

	engine := &Engine{
		store:       store,
		features:    features,
		featureIdx:  featureIdx,
		bookVectors: bookVectors,
		evidence:    nil,
		asked:       nil,
	}
	engine.Reset()
	return engine
}

// Reset clears the evidence vector and the asked set. A reset engine behaves
// identically to a freshly constructed one.
func (e *Engine) Reset() {
	e.evidence = make([]float64, len(e.features))
	e.asked = make(map[string]bool)
}

// Answer records the user's reply for a feature: yes is +1, no is -1, and
// maybe collapses to neutral 0, same as never answered. Repeat answers are
// last-write-wins and an unknown feature id is a silent no-op so stale client
// state cannot break the turn loop.
func (e *Engine) Answer(feature string, answer models.Answer) {
	idx, ok := e.featureIdx[feature]
	if !ok {
		return
	}
	e.asked[feature] = true

	switch answer {
	case models.AnswerYes:
		e.evidence[idx] = 1.0
	case models.AnswerNo:
		e.evidence[idx] = -1.0
	case models.AnswerMaybe:
		e.evidence[idx] = 0.0
	default:
		e.evidence[idx] = 0.0
	}
}

// Rank returns every book ordered by cosine similarity against the evidence
// vector, ties keeping catalog order. With no informative answers yet, every
// book scores 0 in catalog order.
func (e *Engine) Rank() []models.ScoredBook {
	books := e.store.FeatureBooks()
	scored := make([]models.ScoredBook, len(books))

	informative := norm(e.evidence) > 0
	for i, book := range books {
		score := 0.0
		if informative {
			score = cosineSimilarity(e.evidence, e.bookVectors[i])
		}
		scored[i] = models.ScoredBook{Book: book, Score: score, Index: i}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// NextQuestion picks the unasked feature that best splits the current
// candidate pool, maximizing the binary variance p*(1-p) where p is the
// fraction of pool books with the feature set. Ties break on feature-space
// order. Returns nil when every feature has been asked.
func (e *Engine) NextQuestion() *models.Question {
	ranked := e.Rank()
	if len(ranked) == 0 {
		return nil
	}

	// Before any informative answer the pool is the whole catalog; afterwards
	// focus on distinguishing the top half (at least 3).
	pool := ranked
	if ranked[0].Score != 0 {
		topN := max(3, len(ranked)/2)
		if topN < len(ranked) {
			pool = ranked[:topN]
		}
	}

	bestFeature := ""
	maxVariance := -1.0
	for idx, feature := range e.features {
		if e.asked[feature] {
			continue
		}

		present := 0
		for _, candidate := range pool {
			if e.bookVectors[candidate.Index][idx] == 1 {
				present++
			}
		}
		p := float64(present) / float64(len(pool))
		variance := p * (1 - p)

		if variance > maxVariance {
			maxVariance = variance
			bestFeature = feature
		}
	}

	if bestFeature == "" {
		return nil
	}
	question, ok := e.store.QuestionFor(bestFeature)
	if !ok {
		return nil
	}
	return &question
}

func cosineSimilarity(a, b []float64) float64 {
	normA := norm(a)
	normB := norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
