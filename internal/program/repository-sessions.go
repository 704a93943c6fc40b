package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqliteSessionRepository persists the session log. The calendar date is the
// unique key: inserting a second record for a date is rejected by the store,
// so callers either Insert or Update, never both.
type sqliteSessionRepository struct {
	baseRepository
}

// GetByDate retrieves the session logged for a calendar date.
func (r *sqliteSessionRepository) GetByDate(ctx context.Context, date time.Time) (Session, error) {
	var (
		sess      Session
		dateStr   string
		completed int
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, session_date, completed, notes
		FROM sessions
		WHERE session_date = ?`,
		formatDate(date)).Scan(&sess.ID, &dateStr, &completed, &sess.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}

	if sess.Date, err = time.Parse(dateFormat, dateStr); err != nil {
		return Session{}, fmt.Errorf("parse session date: %w", err)
	}
	sess.Completed = completed != 0

	return sess, nil
}

// List retrieves all session records ordered by date ascending.
func (r *sqliteSessionRepository) List(ctx context.Context) (_ []Session, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, session_date, completed, notes
		FROM sessions
		ORDER BY session_date`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sessions []Session
	for rows.Next() {
		var (
			sess      Session
			dateStr   string
			completed int
		)
		if err = rows.Scan(&sess.ID, &dateStr, &completed, &sess.Notes); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if sess.Date, err = time.Parse(dateFormat, dateStr); err != nil {
			return nil, fmt.Errorf("parse session date: %w", err)
		}
		sess.Completed = completed != 0
		sessions = append(sessions, sess)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sessions, nil
}

// Insert adds a new session record and returns the assigned id.
func (r *sqliteSessionRepository) Insert(ctx context.Context, sess Session) (int64, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO sessions (session_date, completed, notes)
		VALUES (?, ?, ?)`,
		formatDate(sess.Date), sess.Completed, sess.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Update rewrites the completed flag and notes of the session for a date and
// returns the number of affected rows.
func (r *sqliteSessionRepository) Update(ctx context.Context, sess Session) (int64, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE sessions
		SET completed = ?, notes = ?
		WHERE session_date = ?`,
		sess.Completed, sess.Notes, formatDate(sess.Date))
	if err != nil {
		return 0, fmt.Errorf("update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// InsertBatch inserts the given sessions inside one transaction. Existing
// records for a date are left untouched: the backfill must never overwrite a
// user-entered or previously synthesised record.
func (r *sqliteSessionRepository) InsertBatch(ctx context.Context, sessions []Session) (err error) {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	for _, sess := range sessions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO sessions (session_date, completed, notes)
			VALUES (?, ?, ?)
			ON CONFLICT (session_date) DO NOTHING`,
			formatDate(sess.Date), sess.Completed, sess.Notes); err != nil {
			return fmt.Errorf("insert session %s: %w", formatDate(sess.Date), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Delete removes the session for a date and returns the number of affected rows.
func (r *sqliteSessionRepository) Delete(ctx context.Context, date time.Time) (int64, error) {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE session_date = ?`,
		formatDate(date))
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// DeleteAll removes every session record. Used by the destructive program
// reset when the start date changes or is cleared.
func (r *sqliteSessionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("delete all sessions: %w", err)
	}
	return nil
}
