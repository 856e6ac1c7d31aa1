package parser_test

import (
	"testing"

	"github.com/myrjola/bookinator/internal/models"
	"github.com/myrjola/bookinator/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_finalCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "well-formed block",
			text: "[FINAL]\n1. Sonar Kella by Satyajit Ray\n2. Chander Pahar by Bibhutibhushan\n3. The Guide by Narayan\n[END FINAL]",
			want: []string{
				"1. Sonar Kella by Satyajit Ray",
				"2. Chander Pahar by Bibhutibhushan",
				"3. The Guide by Narayan",
			},
		},
		{
			name: "missing end marker runs to end of text",
			text: "[FINAL]\n1. Sonar Kella\n2. Chander Pahar",
			want: []string{"1. Sonar Kella", "2. Chander Pahar"},
		},
		{
			name: "blank lines are dropped",
			text: "[FINAL]\n\n1. Sonar Kella\n\n\n2. Chander Pahar\n[END FINAL]",
			want: []string{"1. Sonar Kella", "2. Chander Pahar"},
		},
		{
			name: "final wins over guess",
			text: "[GUESS]\nBook: Feluda\nConfidence: 95%\n[END GUESS]\n[FINAL]\n1. Feluda\n[END FINAL]",
			want: []string{"1. Feluda"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := parser.Parse(tt.text)
			require.Equal(t, tt.want, turn.FinalCandidates)
			assert.Empty(t, turn.DisplayText)
			assert.Nil(t, turn.Guess)
			assert.Empty(t, turn.InfoAside)
			assert.Empty(t, turn.SearchQuery)
		})
	}
}

func TestParse_guess(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *models.Guess
	}{
		{
			name: "full block",
			text: "[GUESS]\nConfidence: 95%\nBook: Feluda (Sonar Kella)\nReasoning: User confirmed Detective + Satyajit Ray + Desert setting.\nSimilar:\n- Royal Bengal Rahasya\n- Joi Baba Felunath\n[END GUESS]",
			want: &models.Guess{
				Confidence: "95%",
				Book:       "Feluda (Sonar Kella)",
				Reasoning:  "User confirmed Detective + Satyajit Ray + Desert setting.",
				Similar:    []string{"Royal Bengal Rahasya", "Joi Baba Felunath"},
			},
		},
		{
			name: "unterminated block ends at end of text",
			text: "[GUESS]\nConfidence: 90%\nBook: Byomkesh Bakshi",
			want: &models.Guess{
				Confidence: "90%",
				Book:       "Byomkesh Bakshi",
				Reasoning:  "",
				Similar:    []string{},
			},
		},
		{
			name: "missing markers fall back to whole text",
			text: "Confidence: 80%\nBook: Shonku\nReasoning: scientist",
			want: &models.Guess{
				Confidence: "80%",
				Book:       "Shonku",
				Reasoning:  "scientist",
				Similar:    []string{},
			},
		},
		{
			name: "unlabeled lines extend the reasoning",
			text: "[GUESS]\nBook: Tenida\nReasoning: humor series\nset in Potol Danga\n[END GUESS]",
			want: &models.Guess{
				Confidence: "0%",
				Book:       "Tenida",
				Reasoning:  "humor series set in Potol Danga",
				Similar:    []string{},
			},
		},
		{
			name: "no book line discards the guess",
			text: "[GUESS]\nConfidence: 40%\nReasoning: not sure yet\n[END GUESS]",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := parser.Parse(tt.text)
			require.Equal(t, tt.want, turn.Guess)
			if tt.want != nil {
				assert.Empty(t, turn.DisplayText, "display text is forced empty when a guess is present")
			}
			assert.Nil(t, turn.FinalCandidates)
		})
	}
}

func TestParse_plainText(t *testing.T) {
	turn := parser.Parse("Just a plain question?")

	require.Equal(t, "Just a plain question?", turn.DisplayText)
	assert.Nil(t, turn.Guess)
	assert.Nil(t, turn.FinalCandidates)
	assert.Empty(t, turn.InfoAside)
	assert.Empty(t, turn.SearchQuery)
}

func TestParse_infoAside(t *testing.T) {
	turn := parser.Parse("Is it Feluda?\n[INFO] Note: Byomkesh is Sharadindu's detective. Feluda is Ray's.")

	require.Equal(t, "Is it Feluda?", turn.DisplayText)
	require.Equal(t, "Note: Byomkesh is Sharadindu's detective. Feluda is Ray's.", turn.InfoAside)
}

func TestParse_searchRequest(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantQuery   string
		wantDisplay string
	}{
		{
			name:        "search with question",
			text:        "Is it about a detective? [SEARCH: Bengali detective fiction Satyajit Ray]",
			wantQuery:   "Bengali detective fiction Satyajit Ray",
			wantDisplay: "Is it about a detective? [SEARCH: Bengali detective fiction Satyajit Ray]",
		},
		{
			name:        "unterminated search marker yields no query",
			text:        "Thinking... [SEARCH: Bengali novels",
			wantQuery:   "",
			wantDisplay: "Thinking... [SEARCH: Bengali novels",
		},
		{
			name:        "empty query",
			text:        "[SEARCH:]",
			wantQuery:   "",
			wantDisplay: "[SEARCH:]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := parser.Parse(tt.text)
			require.Equal(t, tt.wantQuery, turn.SearchQuery)
			require.Equal(t, tt.wantDisplay, turn.DisplayText)
		})
	}
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "markdown emphasis",
			raw:  "**Is it a _detective_ story?**",
			want: "Is it a detective story?",
		},
		{
			name: "question prefix",
			raw:  "Question 3: Is it written in Bengali?",
			want: "Is it written in Bengali?",
		},
		{
			name: "preamble",
			raw:  "Here's my next question: Is the author still alive?",
			want: "Is the author still alive?",
		},
		{
			name: "surrounding whitespace",
			raw:  "  Is it a novel?  \n",
			want: "Is it a novel?",
		},
		{
			name: "plain text untouched",
			raw:  "Is it a novel?",
			want: "Is it a novel?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parser.CleanReply(tt.raw))
		})
	}
}
