package main

import (
	"net/http"
)

type cycleStatsJSON struct {
	Completed    int `json:"completed"`
	Skipped      int `json:"skipped"`
	Remaining    int `json:"remaining"`
	TotalInCycle int `json:"total_in_cycle"`
}

type progressJSON struct {
	Started             bool           `json:"started"`
	StartDate           string         `json:"start_date,omitempty"`
	CycleStats          cycleStatsJSON `json:"cycle_stats"`
	CurrentCyclePercent float64        `json:"current_cycle_percent"`
	CompletedCycles     int            `json:"completed_cycles"`
	Streak              int            `json:"streak"`
}

// progressGET reports the aggregate progress views. An unstarted program
// yields zero values, not an error.
func (app *application) progressGET(w http.ResponseWriter, r *http.Request) {
	stats := app.program.CycleStats()
	overall := app.program.OverallProgress()

	out := progressJSON{
		CycleStats: cycleStatsJSON{
			Completed:    stats.Completed,
			Skipped:      stats.Skipped,
			Remaining:    stats.Remaining,
			TotalInCycle: stats.TotalInCycle,
		},
		CurrentCyclePercent: overall.CurrentCyclePercent,
		CompletedCycles:     overall.CompletedCycles,
		Streak:              app.program.Streak(),
	}
	if start, started := app.program.StartDate(); started {
		out.Started = true
		out.StartDate = start.Format("2006-01-02")
	}
	app.writeJSON(w, r, http.StatusOK, out)
}

type weekJSON struct {
	Sessions []sessionJSON `json:"sessions"`
}

// weekGET returns the session records of the current week-in-cycle window.
func (app *application) weekGET(w http.ResponseWriter, r *http.Request) {
	out := weekJSON{Sessions: []sessionJSON{}}
	for _, sess := range app.program.WeekSessions() {
		out.Sessions = append(out.Sessions, toSessionJSON(sess))
	}
	app.writeJSON(w, r, http.StatusOK, out)
}
