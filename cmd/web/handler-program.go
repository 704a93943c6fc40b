package main

import (
	"encoding/json"
	"net/http"
	"time"
)

type programPutRequest struct {
	StartDate string `json:"start_date"`
}

type programJSON struct {
	StartDate     string `json:"start_date"`
	AnchorWeekday string `json:"anchor_weekday"`
}

// programPUT establishes a new program start date. Every existing session is
// deleted and the elapsed days are backfilled; the destructive reset is the
// documented contract of this endpoint.
func (app *application) programPUT(w http.ResponseWriter, r *http.Request) {
	var req programPutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed JSON body", http.StatusBadRequest)
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}

	if err = app.program.SetStartDate(r.Context(), start); err != nil {
		app.respondError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, programJSON{
		StartDate:     start.Format("2006-01-02"),
		AnchorWeekday: app.program.AnchorWeekday().String(),
	})
}

// programDELETE stops the program and deletes every session record.
func (app *application) programDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.program.ClearStartDate(r.Context()); err != nil {
		app.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
