package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/program"
)

type dayJSON struct {
	DayInCycle      int    `json:"day_in_cycle"`
	WeekInCycle     int    `json:"week_in_cycle"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
}

type sessionJSON struct {
	Date           string `json:"date"`
	ScheduledDayID int    `json:"scheduled_day_id"`
	Completed      bool   `json:"completed"`
	Notes          string `json:"notes,omitempty"`
}

type workoutJSON struct {
	Date        string       `json:"date"`
	CycleNumber int          `json:"cycle_number"`
	Day         dayJSON      `json:"day"`
	Session     *sessionJSON `json:"session"`
}

func toDayJSON(day program.Day) dayJSON {
	return dayJSON{
		DayInCycle:      day.DayInCycle,
		WeekInCycle:     day.WeekInCycle(),
		Title:           day.Title,
		Category:        string(day.Category),
		DurationMinutes: day.DurationMinutes,
	}
}

func toSessionJSON(sess program.Session) sessionJSON {
	return sessionJSON{
		Date:           sess.Date.Format(time.DateOnly),
		ScheduledDayID: sess.ScheduledDayID,
		Completed:      sess.Completed,
		Notes:          sess.Notes,
	}
}

func toWorkoutJSON(workout program.ScheduledWorkout) workoutJSON {
	out := workoutJSON{
		Date:        workout.Date.Format(time.DateOnly),
		CycleNumber: workout.CycleNumber,
		Day:         toDayJSON(workout.Day),
	}
	if workout.Session != nil {
		sess := toSessionJSON(*workout.Session)
		out.Session = &sess
	}
	return out
}

// todayGET resolves the workout scheduled for the current date.
func (app *application) todayGET(w http.ResponseWriter, r *http.Request) {
	workout, err := app.program.Today()
	if err != nil {
		app.respondError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toWorkoutJSON(workout))
}

type sessionActionRequest struct {
	Notes string `json:"notes"`
}

// parseSessionAction reads the optional JSON body of a complete/skip request.
func (app *application) parseSessionAction(w http.ResponseWriter, r *http.Request) (sessionActionRequest, bool) {
	var req sessionActionRequest
	if r.ContentLength == 0 {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed JSON body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (app *application) sessionCompletePOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	req, ok := app.parseSessionAction(w, r)
	if !ok {
		return
	}

	if err := app.program.CompleteWorkout(r.Context(), date, req.Notes); err != nil {
		app.respondError(w, r, err)
		return
	}
	app.respondWithWorkout(w, r, date)
}

func (app *application) sessionSkipPOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	req, ok := app.parseSessionAction(w, r)
	if !ok {
		return
	}

	if err := app.program.SkipWorkout(r.Context(), date, req.Notes); err != nil {
		app.respondError(w, r, err)
		return
	}
	app.respondWithWorkout(w, r, date)
}

func (app *application) sessionDELETE(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}

	if err := app.program.ResetWorkout(r.Context(), date); err != nil {
		app.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondWithWorkout returns the post-mutation view of the acted-on date so
// clients can refresh without a second round trip.
func (app *application) respondWithWorkout(w http.ResponseWriter, r *http.Request, date time.Time) {
	workout, err := app.program.WorkoutAt(date)
	if err != nil {
		app.respondError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, toWorkoutJSON(workout))
}
