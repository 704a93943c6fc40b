package program

import (
	"context"
	"testing"
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/errors"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/sqlite"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/testhelpers"
)

func newTestRepository(t *testing.T) (*repository, context.Context) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test database: %v", err)
		}
	})
	return newRepository(db, logger), ctx
}

func newTestBackfiller(t *testing.T, repo *repository, days []Day) *backfiller {
	t.Helper()
	schedule, err := NewSchedule(days)
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	return &backfiller{
		schedule: schedule,
		sessions: repo.sessions,
		logger:   testhelpers.NewLogger(testhelpers.NewWriter(t)),
	}
}

func TestBackfillRun(t *testing.T) {
	repo, ctx := newTestRepository(t)
	backfill := newTestBackfiller(t, repo, templateDays())

	today := date(2024, time.March, 14)
	start := today.AddDate(0, 0, -10)

	synthesized, err := backfill.Run(ctx, start, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Ten elapsed days minus the rest day at position seven.
	if synthesized != 9 {
		t.Errorf("got %d synthesized records, want 9", synthesized)
	}

	sessions, err := repo.sessions.List(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 9 {
		t.Fatalf("got %d records, want 9", len(sessions))
	}
	for _, sess := range sessions {
		if !sess.Completed {
			t.Errorf("record %s: backfilled records must be completed", formatDate(sess.Date))
		}
		if sess.Notes != AutoCompleteNote {
			t.Errorf("record %s: got note %q, want %q", formatDate(sess.Date), sess.Notes, AutoCompleteNote)
		}
		if !sess.Date.Before(today) {
			t.Errorf("record %s: today and later must be left for the user", formatDate(sess.Date))
		}
	}

	t.Run("rest days are never synthesized", func(t *testing.T) {
		restDate := start.AddDate(0, 0, 6)
		if _, err := repo.sessions.GetByDate(ctx, restDate); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound for the rest day", err)
		}
	})

	t.Run("running again synthesizes nothing", func(t *testing.T) {
		again, err := backfill.Run(ctx, start, today)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != 0 {
			t.Errorf("got %d synthesized records, want 0", again)
		}
		sessions, err := repo.sessions.List(ctx)
		if err != nil {
			t.Fatalf("list sessions: %v", err)
		}
		if len(sessions) != 9 {
			t.Errorf("got %d records after second run, want 9", len(sessions))
		}
	})
}

func TestBackfillNeverOverwrites(t *testing.T) {
	repo, ctx := newTestRepository(t)
	backfill := newTestBackfiller(t, repo, templateDays())

	today := date(2024, time.March, 14)
	start := today.AddDate(0, 0, -5)
	skippedDate := start.AddDate(0, 0, 2)

	if _, err := repo.sessions.Insert(ctx, Session{
		Date:      skippedDate,
		Completed: false,
		Notes:     "felt sick",
	}); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	if _, err := backfill.Run(ctx, start, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := repo.sessions.GetByDate(ctx, skippedDate)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Completed || sess.Notes != "felt sick" {
		t.Errorf("existing record was overwritten: %+v", sess)
	}
}

func TestBackfillEdgeCases(t *testing.T) {
	t.Run("empty template aborts with a configuration error", func(t *testing.T) {
		repo, ctx := newTestRepository(t)
		backfill := newTestBackfiller(t, repo, nil)

		today := date(2024, time.March, 14)
		if _, err := backfill.Run(ctx, today.AddDate(0, 0, -5), today); !errors.Is(err, ErrNoSchedule) {
			t.Errorf("got %v, want ErrNoSchedule", err)
		}
		sessions, err := repo.sessions.List(ctx)
		if err != nil {
			t.Fatalf("list sessions: %v", err)
		}
		if len(sessions) != 0 {
			t.Errorf("got %d records, want none", len(sessions))
		}
	})

	t.Run("future start date is a no-op", func(t *testing.T) {
		repo, ctx := newTestRepository(t)
		backfill := newTestBackfiller(t, repo, templateDays())

		today := date(2024, time.March, 14)
		synthesized, err := backfill.Run(ctx, today.AddDate(0, 0, 7), today)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if synthesized != 0 {
			t.Errorf("got %d synthesized records, want 0", synthesized)
		}
	})

	t.Run("years of elapsed time span multiple batches", func(t *testing.T) {
		repo, ctx := newTestRepository(t)
		backfill := newTestBackfiller(t, repo, templateDays())

		today := date(2024, time.March, 14)
		elapsed := 200 // crosses the batch boundary twice
		synthesized, err := backfill.Run(ctx, today.AddDate(0, 0, -elapsed), today)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 200 days cover three full cycles of nine rest days plus one more
		// rest day in the remainder.
		want := elapsed - 3*9 - 1
		if synthesized != want {
			t.Errorf("got %d synthesized records, want %d", synthesized, want)
		}
	})
}
