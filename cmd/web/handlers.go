package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
)

const (
	sessionIDKey = "sessionID"
	gameIDKey    = "gameID"
)

// sessionID returns the stable identifier the per-session engines are keyed
// by, creating one on first use.
func (app *application) sessionID(r *http.Request) string {
	ctx := r.Context()
	id := app.sessionManager.GetString(ctx, sessionIDKey)
	if id == "" {
		id = uuid.NewString()
		app.sessionManager.Put(ctx, sessionIDKey, id)
	}
	return id
}

// gameID identifies one game for the turn log. It rotates on every started game.
func (app *application) gameID(r *http.Request, rotate bool) string {
	ctx := r.Context()
	id := app.sessionManager.GetString(ctx, gameIDKey)
	if id == "" || rotate {
		id = uuid.NewString()
		app.sessionManager.Put(ctx, gameIDKey, id)
	}
	return id
}

func (app *application) startGame(w http.ResponseWriter, r *http.Request) {
	engine := app.dialogues.Get(app.sessionID(r))
	app.gameID(r, true)

	result := engine.Start(r.Context())
	app.writeJSON(w, r, http.StatusOK, result)
}

func (app *application) chat(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message string `json:"message"`
	}
	if !app.decodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	engine := app.dialogues.Get(app.sessionID(r))
	result := engine.Chat(r.Context(), input.Message)

	if err := app.turnLog.Append(r.Context(), app.gameID(r, false), input.Message, summarizeTurn(result)); err != nil {
		// The log is inspection data; losing an entry must not fail the turn.
		app.logger.Warn("could not record turn", errors.SlogError(err))
	}

	app.writeJSON(w, r, http.StatusOK, result)
}

// summarizeTurn renders the reply side of a turn for the turn log.
func summarizeTurn(result models.TurnResult) string {
	switch {
	case result.FinalCandidates != nil:
		return "Final candidates: " + strings.Join(result.FinalCandidates, "; ")
	case result.Guess != nil:
		return fmt.Sprintf("Guess: %s (%s)", result.Guess.Book, result.Guess.Confidence)
	default:
		return result.Response
	}
}

func (app *application) rejectBook(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Book string `json:"book"`
	}
	if !app.decodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Book) == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	app.dialogues.Get(app.sessionID(r)).RejectBook(input.Book)
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *application) resetGame(w http.ResponseWriter, r *http.Request) {
	app.dialogues.Get(app.sessionID(r)).Reset()
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

const topCandidates = 5

func (app *application) answerFeature(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Feature string `json:"feature"`
		Answer  string `json:"answer"`
	}
	if !app.decodeJSON(w, r, &input) {
		return
	}

	engine := app.narrowers.Get(app.sessionID(r))
	engine.Answer(input.Feature, models.Answer(input.Answer))

	candidates := engine.Rank()
	if len(candidates) > topCandidates {
		candidates = candidates[:topCandidates]
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"question":   engine.NextQuestion(),
		"candidates": candidates,
	})
}

func (app *application) rankBooks(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.narrowers.Get(app.sessionID(r)).Rank())
}

func (app *application) nextQuestion(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"question": app.narrowers.Get(app.sessionID(r)).NextQuestion(),
	})
}

func (app *application) resetNarrowing(w http.ResponseWriter, r *http.Request) {
	app.narrowers.Get(app.sessionID(r)).Reset()
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// healthy reports whether the completion service answers and which models it serves.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names, err := app.aiClient.Models(ctx)
	if err != nil {
		app.logger.Warn("completion service unavailable", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusOK, map[string]any{"completion": false, "models": []string{}})
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"completion": true, "models": names})
}
