package program

import (
	"log/slog"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/sqlite"
)

// repository bundles the per-aggregate repositories behind one handle.
type repository struct {
	schedule *sqliteScheduleRepository
	sessions *sqliteSessionRepository
	settings *sqliteSettingsRepository
}

// baseRepository carries the shared database handle and logger.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	base := newBaseRepository(db, logger)
	return &repository{
		schedule: &sqliteScheduleRepository{baseRepository: base},
		sessions: &sqliteSessionRepository{baseRepository: base},
		settings: &sqliteSettingsRepository{baseRepository: base},
	}
}
