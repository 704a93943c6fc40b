package program

import (
	"math"
	"slices"
	"time"
)

// aggregator derives summary statistics from the full session log plus the
// schedule template. All methods are pure: they read their inputs and compute,
// so the cache layer can memoize their results freely.
type aggregator struct {
	schedule *Schedule
}

// sessionsByDate indexes a session list by its unique calendar date key.
func sessionsByDate(sessions []Session) map[string]Session {
	byDate := make(map[string]Session, len(sessions))
	for _, sess := range sessions {
		byDate[formatDate(sess.Date)] = sess
	}
	return byDate
}

// currentCycleStats classifies every countable day of the cycle containing
// today as completed, skipped, or remaining.
//
// A countable day is skipped when a record marks it not completed, or when it
// lies strictly before today with no record at all. Today and future days
// without a record are still remaining.
func (a aggregator) currentCycleStats(start, today time.Time, sessions []Session) CycleStats {
	stats := CycleStats{}
	cycleStart, ok := cycleStartFor(start, today)
	if !ok || a.schedule.Empty() {
		return stats
	}

	today = normalizeDate(today)
	byDate := sessionsByDate(sessions)

	for offset := range CycleLength {
		day, err := a.schedule.Day(offset + 1)
		if err != nil || !day.Countable() {
			continue
		}
		stats.TotalInCycle++

		date := cycleStart.AddDate(0, 0, offset)
		sess, exists := byDate[formatDate(date)]
		switch {
		case exists && sess.Completed:
			stats.Completed++
		case exists && !sess.Completed:
			stats.Skipped++
		case date.Before(today):
			stats.Skipped++
		}
	}

	stats.Remaining = stats.TotalInCycle - stats.Completed - stats.Skipped
	if stats.Remaining < 0 {
		stats.Remaining = 0
	}
	return stats
}

// overallProgress reports the percentage of the current cycle completed and
// the number of fully elapsed cycles.
func (a aggregator) overallProgress(start, today time.Time, sessions []Session) Progress {
	progress := Progress{}
	elapsed := daysBetween(start, today)
	if elapsed < 0 || a.schedule.Empty() {
		return progress
	}
	progress.CompletedCycles = elapsed / CycleLength

	stats := a.currentCycleStats(start, today, sessions)
	if stats.TotalInCycle > 0 {
		percent := float64(stats.Completed) / float64(stats.TotalInCycle) * 100
		progress.CurrentCyclePercent = math.Min(math.Max(percent, 0), 100)
	}
	if math.IsNaN(progress.CurrentCyclePercent) {
		progress.CurrentCyclePercent = 0
	}
	return progress
}

// thisWeekSessions returns the session records falling in the 7-day window of
// the current week-in-cycle. The window is anchored on the cycle, not the
// calendar week.
func (a aggregator) thisWeekSessions(start, today time.Time, sessions []Session) []Session {
	cycleStart, ok := cycleStartFor(start, today)
	if !ok || a.schedule.Empty() {
		return nil
	}

	dayInCycle, _ := CycleDayFor(start, today)
	weekStart := cycleStart.AddDate(0, 0, (WeekInCycleFor(dayInCycle)-1)*DaysPerWeek)
	weekEnd := weekStart.AddDate(0, 0, DaysPerWeek)

	var week []Session
	for _, sess := range sessions {
		date := normalizeDate(sess.Date)
		if !date.Before(weekStart) && date.Before(weekEnd) {
			week = append(week, sess)
		}
	}
	return week
}

// currentStreak counts consecutive completed days ending at the most recent
// session record. The walk stops at the first gap of more than one calendar
// day or the first non-completed record, so a skipped latest record yields a
// streak of zero.
func currentStreak(sessions []Session) int {
	if len(sessions) == 0 {
		return 0
	}

	sorted := slices.Clone(sessions)
	slices.SortFunc(sorted, func(a, b Session) int {
		return normalizeDate(b.Date).Compare(normalizeDate(a.Date))
	})

	streak := 0
	var prev time.Time
	for i, sess := range sorted {
		if !sess.Completed {
			break
		}
		date := normalizeDate(sess.Date)
		if i > 0 && !date.Equal(prev.AddDate(0, 0, -1)) {
			break
		}
		streak++
		prev = date
	}
	return streak
}
