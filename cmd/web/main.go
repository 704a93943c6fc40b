package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/envstruct"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/errors"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/logging"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/program"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/sqlite"
)

type application struct {
	logger  *slog.Logger
	program *program.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"TRACKER_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"TRACKER_SQLITE_URL" envDefault:"./tracker.sqlite3"`
	// AnchorWeekday is the weekday a program start date must fall on.
	AnchorWeekday string `env:"TRACKER_ANCHOR_WEEKDAY" envDefault:"Monday"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	anchorWeekday, err := parseWeekday(cfg.AnchorWeekday)
	if err != nil {
		return errors.Wrap(err, "parse anchor weekday")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	programService, err := program.NewService(ctx, db, logger, anchorWeekday)
	if err != nil {
		return errors.Wrap(err, "initialize program service")
	}

	app := application{
		logger:  logger,
		program: programService,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// parseWeekday resolves a weekday name like "Monday" case-insensitively.
func parseWeekday(name string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}
	return 0, errors.New("unknown weekday: " + name)
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
