// Package parser turns the completion collaborator's free-text replies into
// typed records. The model output is semi-structured at best, so every marker
// scan degrades instead of failing: an unterminated block ends at end-of-text
// and anything unrecognizable is returned verbatim as display text.
package parser

import (
	"regexp"
	"strings"

	"github.com/myrjola/bookinator/internal/models"
)

const (
	guessMarker    = "[GUESS]"
	guessEndMarker = "[END GUESS]"
	finalMarker    = "[FINAL]"
	finalEndMarker = "[END FINAL]"
	infoMarker     = "[INFO]"
	searchMarker   = "[SEARCH:"
)

var (
	emphasisPattern = regexp.MustCompile(`\*\*|__|\*|_`)
	prefixPattern   = regexp.MustCompile(`(?i)^(Question \d+|Category):?\s*`)
	preamblePattern = regexp.MustCompile(`(?i)^Here'?s my.*?question:?\s*`)
)

// CleanReply strips decoration the completion collaborator tends to add around
// its questions. Downstream parsing keys on plain line prefixes like "Book:",
// so markdown emphasis and "Question N:" preambles must go before Parse runs.
func CleanReply(raw string) string {
	clean := emphasisPattern.ReplaceAllString(raw, "")
	clean = prefixPattern.ReplaceAllString(clean, "")
	clean = preamblePattern.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

// Parse extracts the structured records from one completion reply.
//
// Exclusivity: final candidates win over a guess, a guess wins over plain
// text. The info aside and the search request are orthogonal to all three.
// Parse never fails; on ambiguity the original text comes back as DisplayText.
func Parse(text string) models.ParsedTurn {
	// Game over takes precedence over everything else.
	if candidates := parseFinalCandidates(text); candidates != nil {
		return models.ParsedTurn{FinalCandidates: candidates}
	}

	guess, remainder := parseGuess(text)

	displayText, infoAside := splitInfoAside(remainder)

	turn := models.ParsedTurn{
		DisplayText: strings.TrimSpace(displayText),
		Guess:       guess,
		InfoAside:   infoAside,
		SearchQuery: parseSearchQuery(text),
	}
	if turn.Guess != nil {
		// The guess itself is the payload.
		turn.DisplayText = ""
	}
	return turn
}

// parseFinalCandidates extracts the top-candidates list from a final block.
// A missing end marker means the block runs to end-of-text.
func parseFinalCandidates(text string) []string {
	start := strings.Index(text, finalMarker)
	if start < 0 {
		return nil
	}
	block := text[start+len(finalMarker):]
	if end := strings.Index(block, finalEndMarker); end >= 0 {
		block = block[:end]
	}

	var candidates []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			candidates = append(candidates, line)
		}
	}
	return candidates
}

// parseGuess extracts a structured guess and returns the text with the guess
// block removed. When the collaborator forgets the markers but the text still
// looks like a guess (it has both a Book: and a Confidence: line), the whole
// text is treated as the block.
func parseGuess(text string) (*models.Guess, string) {
	var block, remainder string

	if start := strings.Index(text, guessMarker); start >= 0 {
		rest := text[start+len(guessMarker):]
		end := strings.Index(rest, guessEndMarker)
		if end < 0 {
			block = rest
			remainder = text[:start]
		} else {
			block = rest[:end]
			remainder = text[:start] + rest[end+len(guessEndMarker):]
		}
	} else if strings.Contains(text, "Book:") && strings.Contains(text, "Confidence:") {
		block = text
		remainder = ""
	} else {
		return nil, text
	}

	guess := models.Guess{
		Confidence: "0%",
		Book:       "Unknown",
		Reasoning:  "",
		Similar:    []string{},
	}

	section := ""
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Stray markers can show up mid-line when the model mangles the format.
		cleanLine := strings.ReplaceAll(line, guessMarker, "")
		cleanLine = strings.ReplaceAll(cleanLine, guessEndMarker, "")
		cleanLine = strings.TrimSpace(cleanLine)
		lower := strings.ToLower(cleanLine)

		switch {
		case strings.HasPrefix(lower, "confidence:"):
			guess.Confidence = strings.TrimSpace(cleanLine[len("confidence:"):])
		case strings.HasPrefix(lower, "book:"):
			guess.Book = strings.TrimSpace(cleanLine[len("book:"):])
		case strings.HasPrefix(lower, "reasoning:"):
			guess.Reasoning = strings.TrimSpace(cleanLine[len("reasoning:"):])
			section = "reasoning"
		case strings.HasPrefix(lower, "similar:"):
			section = "similar"
		case strings.HasPrefix(line, "-") && section == "similar":
			guess.Similar = append(guess.Similar, strings.TrimSpace(line[1:]))
		case section == "reasoning":
			guess.Reasoning += " " + cleanLine
		}
	}

	// Without a named book there is no valid guess.
	if guess.Book == "Unknown" {
		return nil, text
	}
	return &guess, remainder
}

// splitInfoAside splits text at the first info marker. Text before the marker
// is the display candidate, text after is the aside.
func splitInfoAside(text string) (string, string) {
	before, after, found := strings.Cut(text, infoMarker)
	if !found {
		return text, ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// parseSearchQuery extracts the query embedded in a search marker, if any.
func parseSearchQuery(text string) string {
	start := strings.Index(text, searchMarker)
	if start < 0 {
		return ""
	}
	rest := text[start+len(searchMarker):]
	end := strings.Index(rest, "]")
	if end <= 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
