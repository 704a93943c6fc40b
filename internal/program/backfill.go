package program

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AutoCompleteNote marks session records synthesised by the backfill.
const AutoCompleteNote = "auto-completed"

// backfillBatchSize bounds how many synthesised records go into one store
// transaction. Batching keeps the backfill latency bounded even when years
// have elapsed since the start date, and lets the scheduler run between
// batches so the host stays responsive.
const backfillBatchSize = 90

// backfiller synthesises completed session records for every program day that
// elapsed before today. Days on or after today are left for the user.
type backfiller struct {
	schedule *Schedule
	sessions *sqliteSessionRepository
	logger   *slog.Logger
}

// Run walks the days from start up to (not including) today in order and
// inserts an auto-completed record for every elapsed non-rest day that has no
// session yet. It returns the number of records synthesised.
//
// Ordering within the run is strictly sequential: a later day's existence
// check depends on earlier writes being visible. A failed batch aborts the
// remaining backfill but batches already committed stay committed; the run is
// at-least-once, not transactional as a whole.
func (b *backfiller) Run(ctx context.Context, start, today time.Time) (int, error) {
	if b.schedule.Empty() {
		return 0, ErrNoSchedule
	}

	start = normalizeDate(start)
	today = normalizeDate(today)

	// Existing records must never be overwritten. One list query up front
	// avoids a per-day round trip; the INSERT ... DO NOTHING in the batch
	// write protects against records created while the run is in flight.
	existing, err := b.sessions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list existing sessions: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, sess := range existing {
		taken[formatDate(sess.Date)] = true
	}

	var (
		batch       []Session
		synthesized int
	)
	for offset := 0; ; offset++ {
		date := start.AddDate(0, 0, offset)
		if !date.Before(today) {
			break
		}

		day, err := b.schedule.Day(offset%CycleLength + 1)
		if err != nil {
			return synthesized, fmt.Errorf("resolve day %d: %w", offset%CycleLength+1, err)
		}
		if day.Category == CategoryRest {
			continue
		}
		if taken[formatDate(date)] {
			continue
		}

		batch = append(batch, Session{
			Date:      date,
			Completed: true,
			Notes:     AutoCompleteNote,
		})
		if len(batch) >= backfillBatchSize {
			if err = b.flush(ctx, batch); err != nil {
				return synthesized, err
			}
			synthesized += len(batch)
			batch = batch[:0]
		}
	}

	if err = b.flush(ctx, batch); err != nil {
		return synthesized, err
	}
	synthesized += len(batch)

	if synthesized > 0 {
		b.logger.LogAttrs(ctx, slog.LevelInfo, "backfilled sessions",
			slog.Int("count", synthesized),
			slog.String("start_date", formatDate(start)))
	}

	return synthesized, nil
}

func (b *backfiller) flush(ctx context.Context, batch []Session) error {
	if len(batch) == 0 {
		return nil
	}
	if err := b.sessions.InsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("flush backfill batch ending %s: %w",
			formatDate(batch[len(batch)-1].Date), err)
	}
	return nil
}
