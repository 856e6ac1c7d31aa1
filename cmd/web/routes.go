package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave)

	mux.Handle("POST /api/start", session.ThenFunc(app.startGame))
	mux.Handle("POST /api/chat", session.ThenFunc(app.chat))
	mux.Handle("POST /api/reject", session.ThenFunc(app.rejectBook))
	mux.Handle("POST /api/reset", session.ThenFunc(app.resetGame))

	mux.Handle("POST /api/ml/answer", session.ThenFunc(app.answerFeature))
	mux.Handle("GET /api/ml/rank", session.ThenFunc(app.rankBooks))
	mux.Handle("GET /api/ml/next-question", session.ThenFunc(app.nextQuestion))
	mux.Handle("POST /api/ml/reset", session.ThenFunc(app.resetNarrowing))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
