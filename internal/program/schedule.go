package program

import (
	"log/slog"
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/errors"
)

// Schedule is the immutable 63-day program template. It is loaded once from
// the store at startup and only read afterwards.
type Schedule struct {
	days []Day
}

// NewSchedule validates that days form a contiguous 1..63 template and wraps
// them into a Schedule. An empty slice yields an empty schedule, which is a
// normal state; anything between empty and complete is a configuration error.
func NewSchedule(days []Day) (*Schedule, error) {
	if len(days) == 0 {
		return &Schedule{days: nil}, nil
	}
	if len(days) != CycleLength {
		return nil, errors.Wrap(ErrNoSchedule, "wrong number of days",
			slog.Int("got", len(days)))
	}
	indexed := make([]Day, CycleLength)
	seen := make(map[int]bool, CycleLength)
	for _, day := range days {
		if day.DayInCycle < 1 || day.DayInCycle > CycleLength {
			return nil, errors.Wrap(ErrNoSchedule, "day out of range",
				slog.Int("day_in_cycle", day.DayInCycle))
		}
		if seen[day.DayInCycle] {
			return nil, errors.Wrap(ErrNoSchedule, "duplicate day",
				slog.Int("day_in_cycle", day.DayInCycle))
		}
		seen[day.DayInCycle] = true
		indexed[day.DayInCycle-1] = day
	}
	return &Schedule{days: indexed}, nil
}

// Empty reports whether the template has no days, i.e. the program is not
// configured.
func (s *Schedule) Empty() bool {
	return s == nil || len(s.days) == 0
}

// Day looks up the template definition for a 1..63 cycle position.
func (s *Schedule) Day(dayInCycle int) (Day, error) {
	if dayInCycle < 1 || dayInCycle > CycleLength {
		return Day{}, errors.Wrap(ErrInvalidCycleDay, "lookup",
			slog.Int("day_in_cycle", dayInCycle))
	}
	if s.Empty() {
		return Day{}, errors.Wrap(ErrNoSchedule, "lookup",
			slog.Int("day_in_cycle", dayInCycle))
	}
	return s.days[dayInCycle-1], nil
}

// Days returns the template in day-in-cycle order.
func (s *Schedule) Days() []Day {
	if s == nil {
		return nil
	}
	out := make([]Day, len(s.days))
	copy(out, s.days)
	return out
}

// CountableDays is the number of workout and fit test days in one cycle.
func (s *Schedule) CountableDays() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, day := range s.days {
		if day.Countable() {
			count++
		}
	}
	return count
}

// normalizeDate strips the time-of-day and time zone so that date arithmetic
// counts whole calendar days.
func normalizeDate(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from start to date. Negative when
// date precedes start.
func daysBetween(start, date time.Time) int {
	diff := normalizeDate(date).Sub(normalizeDate(start))
	return int(diff / (24 * time.Hour))
}

// CycleDayFor maps a calendar date onto its 1..63 position within the cycle
// anchored at start. The second return is false when date precedes start; the
// position is undefined there, which callers treat as "no result".
func CycleDayFor(start, date time.Time) (int, bool) {
	elapsed := daysBetween(start, date)
	if elapsed < 0 {
		return 0, false
	}
	return elapsed%CycleLength + 1, true
}

// CycleNumberFor returns the 1-based count of the cycle containing date, or
// false when date precedes start.
func CycleNumberFor(start, date time.Time) (int, bool) {
	elapsed := daysBetween(start, date)
	if elapsed < 0 {
		return 0, false
	}
	return elapsed/CycleLength + 1, true
}

// WeekInCycleFor derives the 1..9 week from a 1..63 day-in-cycle.
func WeekInCycleFor(dayInCycle int) int {
	return (dayInCycle-1)/DaysPerWeek + 1
}

// cycleStartFor returns the calendar date of day 1 of the cycle containing
// date. The second return is false when date precedes start.
func cycleStartFor(start, date time.Time) (time.Time, bool) {
	cycleNumber, ok := CycleNumberFor(start, date)
	if !ok {
		return time.Time{}, false
	}
	return normalizeDate(start).AddDate(0, 0, (cycleNumber-1)*CycleLength), true
}
