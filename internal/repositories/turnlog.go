package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/bookinator/internal/db"
	"github.com/myrjola/bookinator/internal/errors"
)

// Turn is one recorded exchange of a game: the visitor's message and the
// host's reply.
type Turn struct {
	ID      int64  `db:"id"`
	Order   int64  `db:"order"`
	Message string `db:"message"`
	Reply   string `db:"reply"`
}

// TurnLogRepository appends completed chat turns to SQLite keyed by game id.
// This is inspection data for tuning the prompts, not session state: games
// still live and die in memory.
type TurnLogRepository struct {
	dbs    *db.Database
	logger *slog.Logger
}

func NewTurnLogRepository(dbs *db.Database, logger *slog.Logger) *TurnLogRepository {
	return &TurnLogRepository{
		dbs:    dbs,
		logger: logger.With("source", "TurnLogRepository"),
	}
}

// Append records the next turn for a game. The order continues from the last
// recorded turn, starting at 0 for a fresh game.
func (r *TurnLogRepository) Append(ctx context.Context, gameID, message, reply string) error {
	stmt := `WITH next_order AS (
SELECT COALESCE(MAX("order") + 1, 0) AS "order"
  FROM turns
 WHERE game_id = @game_id)
INSERT
INTO turns (game_id, "order", message, reply)
VALUES (@game_id, (SELECT "order" FROM next_order), @message, @reply);`
	params := []any{
		sql.Named("game_id", gameID),
		sql.Named("message", message),
		sql.Named("reply", reply),
	}
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "insert turn", slog.String("game_id", gameID))
	}
	return nil
}

// Game returns all recorded turns for a game in play order.
func (r *TurnLogRepository) Game(ctx context.Context, gameID string) ([]Turn, error) {
	var turns []Turn
	stmt := `SELECT id, "order", message, reply FROM turns WHERE game_id = ? ORDER BY "order"`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &turns, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "select turns", slog.String("game_id", gameID))
	}
	return turns, nil
}
