// Package program implements the 63-day program cycle engine: calendar dates
// map onto cyclical program positions, user actions produce dated session
// records, and aggregated progress views are served from a cache that cannot
// silently diverge from the session log.
package program

import (
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/errors"
)

// Category classifies a scheduled program day.
type Category string

const (
	CategoryWorkout Category = "workout"
	CategoryFitTest Category = "fit_test"
	CategoryRest    Category = "rest"
)

const (
	// CycleLength is the number of days in one full traversal of the program.
	CycleLength = 63
	// DaysPerWeek splits the cycle into nine weeks.
	DaysPerWeek = 7
	// WeeksPerCycle is CycleLength / DaysPerWeek.
	WeeksPerCycle = 9
)

var (
	// ErrNotFound is returned when a record does not exist in the store.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrNoSchedule signals a missing or incomplete schedule template. The
	// engine cannot guess a schedule, so operations that need one fail fast.
	ErrNoSchedule = errors.NewSentinel("schedule template is missing or incomplete")
	// ErrInvalidCycleDay is returned for day-in-cycle values outside 1..63.
	ErrInvalidCycleDay = errors.NewSentinel("day in cycle out of range")
	// ErrInvalidStartDate rejects start dates not on the anchor weekday.
	ErrInvalidStartDate = errors.NewSentinel("start date does not fall on the anchor weekday")
	// ErrFutureDate rejects session actions on dates after today.
	ErrFutureDate = errors.NewSentinel("cannot log a session for a future date")
	// ErrNotStarted is returned by mutations that need a program start date.
	ErrNotStarted = errors.NewSentinel("program has not been started")
	// ErrRestDay rejects logging a session against a scheduled rest day.
	ErrRestDay = errors.NewSentinel("rest days cannot be logged")
	// ErrBusy signals that a mutation was dropped because another one is
	// still in flight. The dropped call has no effect.
	ErrBusy = errors.NewSentinel("another operation is in flight")
)

// Day is one row of the immutable schedule template.
type Day struct {
	// DayInCycle is the 1..63 position of the day within the cycle.
	DayInCycle int
	// Title names the scheduled workout, e.g. "Fit Test" or "Pure Cardio".
	Title string
	// Category decides whether the day counts towards completion statistics.
	Category Category
	// DurationMinutes is the reference duration of the scheduled workout.
	DurationMinutes int
	// DescriptionMarkdown describes the workout for presentation layers.
	DescriptionMarkdown string
}

// Countable reports whether the day participates in completion statistics.
// Rest days do not.
func (d Day) Countable() bool {
	return d.Category == CategoryWorkout || d.Category == CategoryFitTest
}

// WeekInCycle returns the 1..9 week this day belongs to.
func (d Day) WeekInCycle() int {
	return WeekInCycleFor(d.DayInCycle)
}

// Session is a dated log record of a user (or backfill) action. The calendar
// date is the sole key: at most one session exists per date, and
// ScheduledDayID is derived from the date and the start date when the record
// is loaded, never persisted.
type Session struct {
	// ID is assigned by the store on insert and zero before persistence.
	ID int64
	// Date is the calendar date the session was logged against.
	Date time.Time
	// ScheduledDayID is the 1..63 template day the date resolves to, or zero
	// when the program start date is unset.
	ScheduledDayID int
	// Completed is true for a completed workout and false for a skipped one.
	Completed bool
	// Notes is optional free text; backfilled records carry a fixed marker.
	Notes string
}

// CycleStats summarises the cycle that contains today.
type CycleStats struct {
	// Completed counts countable days with a completed session record.
	Completed int
	// Skipped counts countable days explicitly skipped or left behind without
	// a record.
	Skipped int
	// Remaining counts countable days not yet acted on, clamped at zero.
	Remaining int
	// TotalInCycle is the number of countable days in one cycle.
	TotalInCycle int
}

// Progress is the overall position within the repeating program.
type Progress struct {
	// CurrentCyclePercent is the share of countable days completed in the
	// current cycle, in [0, 100].
	CurrentCyclePercent float64
	// CompletedCycles counts fully elapsed 63-day cycles since the start date.
	CompletedCycles int
}

// ScheduledWorkout pairs a calendar date with its template day and, when one
// exists, the session logged against it.
type ScheduledWorkout struct {
	Date        time.Time
	CycleNumber int
	Day         Day
	Session     *Session
}

const dateFormat = time.DateOnly

func formatDate(date time.Time) string {
	return date.Format(dateFormat)
}
