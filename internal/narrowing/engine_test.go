package narrowing_test

import (
	"testing"

	"github.com/myrjola/bookinator/internal/catalog"
	"github.com/myrjola/bookinator/internal/models"
	"github.com/myrjola/bookinator/internal/narrowing"
	"github.com/stretchr/testify/require"
)

func testStore() *catalog.Store {
	featureBooks := []models.Book{
		{
			Title:   "Sonar Kella",
			Authors: "Satyajit Ray",
			Features: map[string]float64{
				"is-detective-fiction": 1, "is-bengali": 1, "has-child-protagonist": 1,
			},
		},
		{
			Title:   "Chander Pahar",
			Authors: "Bibhutibhushan Bandyopadhyay",
			Features: map[string]float64{
				"is-detective-fiction": -1, "is-bengali": 1, "is-adventure": 1,
			},
		},
		{
			Title:   "The Guide",
			Authors: "R. K. Narayan",
			Features: map[string]float64{
				"is-detective-fiction": -1, "is-bengali": -1,
			},
		},
	}
	questions := []models.Question{
		{Text: "Is it detective fiction?", Feature: "is-detective-fiction"},
		{Text: "Was it originally written in Bengali?", Feature: "is-bengali"},
		{Text: "Is it an adventure story?", Feature: "is-adventure"},
		{Text: "Does it have a child protagonist?", Feature: "has-child-protagonist"},
	}
	return catalog.New(nil, featureBooks, questions)
}

func TestEngine_Rank_noEvidencePreservesCatalogOrder(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	ranked := engine.Rank()

	require.Len(t, ranked, 3)
	for i, scored := range ranked {
		require.InDelta(t, 0.0, scored.Score, 1e-9)
		require.Equal(t, i, scored.Index)
	}
}

func TestEngine_Rank_exactMatchRanksFirst(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	// Answer every feature exactly like Sonar Kella's vector.
	engine.Answer("is-detective-fiction", models.AnswerYes)
	engine.Answer("is-bengali", models.AnswerYes)
	engine.Answer("has-child-protagonist", models.AnswerYes)

	ranked := engine.Rank()

	require.Equal(t, "Sonar Kella", ranked[0].Book.Title)
	require.InDelta(t, 1.0, ranked[0].Score, 1e-9)
	require.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestEngine_Rank_maybeCollapsesToNeutral(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	engine.Answer("is-bengali", models.AnswerMaybe)

	ranked := engine.Rank()
	for _, scored := range ranked {
		require.InDelta(t, 0.0, scored.Score, 1e-9, "maybe must be identical to never answered")
	}
}

func TestEngine_Answer_unknownFeatureIsNoOp(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	engine.Answer("is-science-fiction", models.AnswerYes)

	ranked := engine.Rank()
	for _, scored := range ranked {
		require.InDelta(t, 0.0, scored.Score, 1e-9)
	}
}

func TestEngine_Answer_lastWriteWins(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	engine.Answer("is-bengali", models.AnswerYes)
	engine.Answer("is-bengali", models.AnswerNo)

	ranked := engine.Rank()
	require.Equal(t, "The Guide", ranked[0].Book.Title)
}

func TestEngine_NextQuestion_neverRepeatsAskedFeatures(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	seen := make(map[string]bool)
	for {
		question := engine.NextQuestion()
		if question == nil {
			break
		}
		require.False(t, seen[question.Feature], "feature %q asked twice", question.Feature)
		seen[question.Feature] = true
		engine.Answer(question.Feature, models.AnswerYes)
	}

	require.Len(t, seen, 4, "every feature gets asked exactly once")
}

func TestEngine_NextQuestion_exhaustedFeaturesReturnNil(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	for _, feature := range []string{
		"is-detective-fiction", "is-bengali", "is-adventure", "has-child-protagonist",
	} {
		engine.Answer(feature, models.AnswerNo)
	}

	require.Nil(t, engine.NextQuestion())
}

func TestEngine_NextQuestion_tieBreaksOnFeatureOrder(t *testing.T) {
	engine := narrowing.NewEngine(testStore())

	// With a neutral evidence vector all four features split the catalog
	// 1-vs-2, so the first feature in the fixed sorted order wins.
	question := engine.NextQuestion()

	require.NotNil(t, question)
	require.Equal(t, "has-child-protagonist", question.Feature)
}

func TestEngine_Reset_behavesLikeFreshEngine(t *testing.T) {
	engine := narrowing.NewEngine(testStore())
	fresh := narrowing.NewEngine(testStore())

	engine.Answer("is-detective-fiction", models.AnswerYes)
	engine.Answer("is-bengali", models.AnswerNo)
	engine.Reset()

	require.Equal(t, fresh.Rank(), engine.Rank())
	require.Equal(t, fresh.NextQuestion(), engine.NextQuestion())
}

func TestEngine_emptyCatalog(t *testing.T) {
	engine := narrowing.NewEngine(catalog.New(nil, nil, nil))

	require.Empty(t, engine.Rank())
	require.Nil(t, engine.NextQuestion())
}
