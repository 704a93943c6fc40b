package program

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/errors"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/sqlite"
)

// Service composes the calculator, backfiller, aggregator, and cache into the
// operations callers use. One instance owns all engine state; nothing here is
// a global.
//
// Mutating operations are serialized by an in-flight flag: a mutation started
// while another is running is dropped with ErrBusy instead of racing its store
// writes. Every completed mutation reloads the session log, refreshes the
// cache, and notifies observers exactly once, on success and on failure alike.
type Service struct {
	repo          *repository
	logger        *slog.Logger
	anchorWeekday time.Weekday
	now           func() time.Time

	mu        sync.RWMutex
	schedule  *Schedule
	startDate time.Time
	started   bool
	sessions  []Session

	cache    *statsCache
	inFlight atomic.Bool

	observerMu   sync.Mutex
	observers    map[int]func()
	nextObserver int
}

// NewService loads the schedule template, the start date, and the session log
// from the store and returns a ready engine. The anchor weekday constrains
// which dates SetStartDate accepts.
func NewService(
	ctx context.Context,
	db *sqlite.Database,
	logger *slog.Logger,
	anchorWeekday time.Weekday,
) (*Service, error) {
	s := &Service{
		repo:          newRepository(db, logger),
		logger:        logger,
		anchorWeekday: anchorWeekday,
		cache:         newStatsCache(),
		now:           time.Now,
		observers:     make(map[int]func()),
	}

	days, err := s.repo.schedule.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule template: %w", err)
	}
	schedule, err := NewSchedule(days)
	if err != nil {
		return nil, fmt.Errorf("validate schedule template: %w", err)
	}
	s.schedule = schedule

	start, started, err := s.repo.settings.StartDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load start date: %w", err)
	}
	if started {
		s.startDate = normalizeDate(start)
		s.started = true
	}

	if err = s.reloadSessions(ctx); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	return s, nil
}

// snapshot returns the in-memory state under the read lock. The returned
// slice is shared and must not be mutated.
func (s *Service) snapshot() (*Schedule, time.Time, bool, []Session) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule, s.startDate, s.started, s.sessions
}

// reloadSessions replaces the in-memory session log with a fresh load from
// the store and lets the cache compare fingerprints. On failure the previous
// log stays in place as the last-known-good snapshot.
func (s *Service) reloadSessions(ctx context.Context) error {
	sessions, err := s.repo.sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	s.mu.Lock()
	if s.started {
		for i := range sessions {
			if dayInCycle, ok := CycleDayFor(s.startDate, sessions[i].Date); ok {
				sessions[i].ScheduledDayID = dayInCycle
			}
		}
	}
	s.sessions = sessions
	s.mu.Unlock()

	if s.cache.Reload(sessions) {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "session log changed",
			slog.Int("sessions", len(sessions)))
	}
	return nil
}

// AnchorWeekday returns the weekday valid start dates must fall on.
func (s *Service) AnchorWeekday() time.Weekday {
	return s.anchorWeekday
}

// StartDate returns the program start date and whether one is set.
func (s *Service) StartDate() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startDate, s.started
}

// Today resolves the scheduled workout for the current date.
func (s *Service) Today() (ScheduledWorkout, error) {
	return s.WorkoutAt(s.now())
}

// WorkoutAt resolves the scheduled workout for an arbitrary date on or after
// the start date, pairing the template day with the session logged against
// that date if one exists.
func (s *Service) WorkoutAt(date time.Time) (ScheduledWorkout, error) {
	schedule, start, started, sessions := s.snapshot()
	if !started {
		return ScheduledWorkout{}, errors.Wrap(ErrNotStarted, "resolve workout")
	}
	if schedule.Empty() {
		return ScheduledWorkout{}, errors.Wrap(ErrNoSchedule, "resolve workout")
	}

	date = normalizeDate(date)
	dayInCycle, ok := CycleDayFor(start, date)
	if !ok {
		return ScheduledWorkout{}, errors.Wrap(ErrNotStarted, "date precedes program start",
			slog.String("date", formatDate(date)))
	}
	day, err := schedule.Day(dayInCycle)
	if err != nil {
		return ScheduledWorkout{}, fmt.Errorf("scheduled day %d: %w", dayInCycle, err)
	}
	cycleNumber, _ := CycleNumberFor(start, date)

	workout := ScheduledWorkout{
		Date:        date,
		CycleNumber: cycleNumber,
		Day:         day,
	}
	for _, sess := range sessions {
		if normalizeDate(sess.Date).Equal(date) {
			workout.Session = &sess
			break
		}
	}
	return workout, nil
}

// ScheduleDay looks up a single template day for presentation layers.
func (s *Service) ScheduleDay(dayInCycle int) (Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Day(dayInCycle)
}

// ScheduleDays returns the full template in day-in-cycle order.
func (s *Service) ScheduleDays() []Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.Days()
}

// CycleStats summarises the cycle containing today. Without a start date or a
// schedule it returns the zero value; an unstarted program is a normal state.
func (s *Service) CycleStats() CycleStats {
	schedule, start, started, sessions := s.snapshot()
	if !started || schedule.Empty() {
		return CycleStats{}
	}
	return s.cache.CycleStats(func() CycleStats {
		return aggregator{schedule: schedule}.currentCycleStats(start, s.now(), sessions)
	})
}

// OverallProgress reports the current cycle percentage and completed cycles.
// Returns the zero value when the program is not started.
func (s *Service) OverallProgress() Progress {
	schedule, start, started, sessions := s.snapshot()
	if !started || schedule.Empty() {
		return Progress{}
	}
	return s.cache.Progress(func() Progress {
		return aggregator{schedule: schedule}.overallProgress(start, s.now(), sessions)
	})
}

// WeekSessions returns the session records falling in the current
// week-in-cycle window. Returns nil when the program is not started.
func (s *Service) WeekSessions() []Session {
	schedule, start, started, sessions := s.snapshot()
	if !started || schedule.Empty() {
		return nil
	}
	return s.cache.WeekSessions(func() []Session {
		return aggregator{schedule: schedule}.thisWeekSessions(start, s.now(), sessions)
	})
}

// Streak returns the count of consecutive completed days ending at the most
// recent session record.
func (s *Service) Streak() int {
	_, _, _, sessions := s.snapshot()
	return s.cache.Streak(func() int {
		return currentStreak(sessions)
	})
}

// CompleteWorkout logs the workout scheduled for date as completed. Acting a
// second time on the same date updates the existing record in place.
func (s *Service) CompleteWorkout(ctx context.Context, date time.Time, notes string) error {
	return s.mutate(ctx, "complete workout", func(ctx context.Context) error {
		return s.logSession(ctx, date, true, notes)
	})
}

// SkipWorkout logs the workout scheduled for date as skipped.
func (s *Service) SkipWorkout(ctx context.Context, date time.Time, notes string) error {
	return s.mutate(ctx, "skip workout", func(ctx context.Context) error {
		return s.logSession(ctx, date, false, notes)
	})
}

// ResetWorkout removes the session logged against date, returning the day to
// its unacted state. ErrNotFound when no session exists for the date.
func (s *Service) ResetWorkout(ctx context.Context, date time.Time) error {
	return s.mutate(ctx, "reset workout", func(ctx context.Context) error {
		day := normalizeDate(date)
		affected, err := s.repo.sessions.Delete(ctx, day)
		if err != nil {
			return fmt.Errorf("delete session %s: %w", formatDate(day), err)
		}
		if affected == 0 {
			return errors.Wrap(ErrNotFound, "reset workout",
				slog.String("date", formatDate(day)))
		}
		return nil
	})
}

// SetStartDate replaces the program start date. Every existing session record
// is deleted and the elapsed days of the new timeline are backfilled. The
// reset is destructive and not undoable; callers confirm before invoking.
func (s *Service) SetStartDate(ctx context.Context, start time.Time) error {
	return s.mutate(ctx, "set start date", func(ctx context.Context) error {
		schedule, _, _, _ := s.snapshot()
		if schedule.Empty() {
			return errors.Wrap(ErrNoSchedule, "set start date")
		}
		start = normalizeDate(start)
		if start.Weekday() != s.anchorWeekday {
			return errors.Wrap(ErrInvalidStartDate, "set start date",
				slog.String("date", formatDate(start)),
				slog.String("anchor_weekday", s.anchorWeekday.String()))
		}

		if err := s.repo.sessions.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := s.repo.settings.SetStartDate(ctx, start); err != nil {
			return fmt.Errorf("persist start date: %w", err)
		}

		s.mu.Lock()
		s.startDate = start
		s.started = true
		s.mu.Unlock()
		s.cache.Invalidate()

		backfill := &backfiller{schedule: schedule, sessions: s.repo.sessions, logger: s.logger}
		if _, err := backfill.Run(ctx, start, s.now()); err != nil {
			return fmt.Errorf("backfill sessions: %w", err)
		}
		return nil
	})
}

// ClearStartDate stops the program and deletes every session record.
func (s *Service) ClearStartDate(ctx context.Context) error {
	return s.mutate(ctx, "clear start date", func(ctx context.Context) error {
		if err := s.repo.sessions.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := s.repo.settings.ClearStartDate(ctx); err != nil {
			return fmt.Errorf("clear start date: %w", err)
		}

		s.mu.Lock()
		s.startDate = time.Time{}
		s.started = false
		s.mu.Unlock()
		s.cache.Invalidate()
		return nil
	})
}

// logSession validates date against the program window and schedule, then
// inserts or updates the session record for it. The calendar date is the sole
// key, so repeated actions on one date converge on a single record.
func (s *Service) logSession(ctx context.Context, date time.Time, completed bool, notes string) error {
	schedule, start, started, _ := s.snapshot()
	if !started {
		return errors.Wrap(ErrNotStarted, "log session")
	}
	if schedule.Empty() {
		return errors.Wrap(ErrNoSchedule, "log session")
	}

	date = normalizeDate(date)
	if date.After(normalizeDate(s.now())) {
		return errors.Wrap(ErrFutureDate, "log session",
			slog.String("date", formatDate(date)))
	}
	dayInCycle, ok := CycleDayFor(start, date)
	if !ok {
		return errors.Wrap(ErrNotStarted, "date precedes program start",
			slog.String("date", formatDate(date)))
	}
	day, err := schedule.Day(dayInCycle)
	if err != nil {
		return fmt.Errorf("scheduled day %d: %w", dayInCycle, err)
	}
	if !day.Countable() {
		return errors.Wrap(ErrRestDay, "log session",
			slog.String("date", formatDate(date)))
	}

	sess := Session{
		Date:           date,
		ScheduledDayID: dayInCycle,
		Completed:      completed,
		Notes:          notes,
	}
	existing, err := s.repo.sessions.GetByDate(ctx, date)
	switch {
	case err == nil:
		sess.ID = existing.ID
		if _, err = s.repo.sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("update session %s: %w", formatDate(date), err)
		}
	case errors.Is(err, ErrNotFound):
		if _, err = s.repo.sessions.Insert(ctx, sess); err != nil {
			return fmt.Errorf("insert session %s: %w", formatDate(date), err)
		}
	default:
		return fmt.Errorf("get session %s: %w", formatDate(date), err)
	}
	return nil
}

// mutate serializes mutating operations behind the in-flight flag. After the
// operation runs it reloads the session log, then notifies observers, exactly
// once whether the operation succeeded or failed. A call dropped with ErrBusy
// has no effect and fires no notification.
func (s *Service) mutate(ctx context.Context, op string, fn func(context.Context) error) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return errors.Wrap(ErrBusy, op)
	}
	defer s.inFlight.Store(false)
	defer s.notify()

	err := fn(ctx)
	if reloadErr := s.reloadSessions(ctx); reloadErr != nil {
		// In-memory collections stay at their last-known-good snapshot.
		err = errors.Join(err, reloadErr)
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "operation failed",
			slog.String("operation", op), errors.SlogError(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Subscribe registers fn to run after every completed mutating operation,
// success or failure. The signal carries no payload; observers re-read
// through the query methods. The returned function removes the subscription.
func (s *Service) Subscribe(fn func()) func() {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	return func() {
		s.observerMu.Lock()
		defer s.observerMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Service) notify() {
	s.observerMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.observerMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
