package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const startDateKey = "program_start_date"

// sqliteSettingsRepository persists program settings as key/value pairs.
type sqliteSettingsRepository struct {
	baseRepository
}

// StartDate retrieves the program start date. The second return is false when
// no program has been started, which is a normal state.
func (r *sqliteSettingsRepository) StartDate(ctx context.Context) (time.Time, bool, error) {
	var value string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT value
		FROM settings
		WHERE key = ?`, startDateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query start date: %w", err)
	}

	date, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse start date: %w", err)
	}
	return date, true, nil
}

// SetStartDate stores the program start date, replacing any previous value.
func (r *sqliteSettingsRepository) SetStartDate(ctx context.Context, date time.Time) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		startDateKey, formatDate(date)); err != nil {
		return fmt.Errorf("set start date: %w", err)
	}
	return nil
}

// ClearStartDate removes the program start date.
func (r *sqliteSettingsRepository) ClearStartDate(ctx context.Context) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM settings
		WHERE key = ?`, startDateKey); err != nil {
		return fmt.Errorf("clear start date: %w", err)
	}
	return nil
}
