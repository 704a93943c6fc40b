package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/huerta-federico/insanity-tracker-sub000/internal/errors"
	"github.com/huerta-federico/insanity-tracker-sub000/internal/program"
)

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
}

// respondError maps domain sentinels to HTTP statuses. Unknown errors are
// treated as server faults.
func (app *application) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, program.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, program.ErrInvalidStartDate),
		errors.Is(err, program.ErrInvalidCycleDay),
		errors.Is(err, program.ErrRestDay),
		errors.Is(err, program.ErrFutureDate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, program.ErrNotStarted),
		errors.Is(err, program.ErrBusy):
		status = http.StatusConflict
	default:
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

// parseDateParam parses the "date" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.PathValue("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.NotFound(w, r)
		return time.Time{}, false
	}
	return date, true
}

// parseDayParam parses the "day" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseDayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	dayStr := r.PathValue("day")
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return day, true
}
