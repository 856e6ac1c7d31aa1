package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/bookinator/internal/ai"
	"github.com/myrjola/bookinator/internal/catalog"
	"github.com/myrjola/bookinator/internal/db"
	"github.com/myrjola/bookinator/internal/dialogue"
	"github.com/myrjola/bookinator/internal/envstruct"
	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/logging"
	"github.com/myrjola/bookinator/internal/narrowing"
	"github.com/myrjola/bookinator/internal/pprofserver"
	"github.com/myrjola/bookinator/internal/repositories"
	"github.com/myrjola/bookinator/internal/retrieval"
	"github.com/myrjola/bookinator/internal/session"
	"github.com/myrjola/bookinator/internal/websearch"
)

type application struct {
	logger         *slog.Logger
	aiClient       *ai.Client
	sessionManager *scs.SessionManager
	dialogues      *session.Store[*dialogue.Engine]
	narrowers      *session.Store[*narrowing.Engine]
	turnLog        *repositories.TurnLogRepository
}

type configuration struct {
	Addr                 string `env:"BOOKINATOR_ADDR" envDefault:"localhost:4000"`
	PprofPort            string `env:"BOOKINATOR_PPROF_PORT" envDefault:":6060"`
	SQLiteURL            string `env:"BOOKINATOR_SQLITE_URL" envDefault:"./bookinator.sqlite"`
	DataDir              string `env:"BOOKINATOR_DATA_DIR" envDefault:"./data"`
	APIKey               string `env:"OPENAI_API_KEY" envDefault:""`
	CompletionBaseURL    string `env:"BOOKINATOR_COMPLETION_BASE_URL" envDefault:""`
	CompletionModel      string `env:"BOOKINATOR_COMPLETION_MODEL" envDefault:"gpt-3.5-turbo-1106"`
	SearchBaseURL        string `env:"BOOKINATOR_SEARCH_BASE_URL" envDefault:""`
	SessionLifetimeHours int    `env:"BOOKINATOR_SESSION_LIFETIME_HOURS" envDefault:"12"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var config configuration
	if err := envstruct.Populate(&config, lookupEnv); err != nil {
		return errors.Wrap(err, "parse configuration")
	}

	// pprof listens on localhost so that it's not open to the world.
	pprofserver.Launch(config.PprofPort, logger)

	dbs, err := db.NewDatabase(config.SQLiteURL)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", config.SQLiteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = time.Duration(config.SessionLifetimeHours) * time.Hour

	store := catalog.Load(config.DataDir, logger)
	aiClient := ai.NewClient(config.APIKey, config.CompletionBaseURL, config.CompletionModel)
	retriever := retrieval.NewAdapter(store, websearch.NewClient(config.SearchBaseURL), logger)

	app := application{
		logger:         logger,
		aiClient:       aiClient,
		sessionManager: sessionManager,
		dialogues: session.NewStore(func() *dialogue.Engine {
			return dialogue.NewEngine(aiClient, retriever, logger)
		}),
		narrowers: session.NewStore(func() *narrowing.Engine {
			return narrowing.NewEngine(store)
		}),
		turnLog: repositories.NewTurnLogRepository(dbs, logger),
	}

	return app.configureAndStartServer(ctx, config.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{ //nolint:exhaustruct // defaults are fine
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
	logger := slog.New(loggerHandler)

	// A missing .env file is fine, the environment may be configured directly.
	_ = godotenv.Load()

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.Error("server exited", errors.SlogError(err))
		os.Exit(1)
	}
}
