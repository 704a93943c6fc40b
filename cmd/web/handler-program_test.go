package main

import (
	"net/http"
	"testing"
)

func TestProgramLifecycle(t *testing.T) {
	app := newTestApplication(t)

	t.Run("today conflicts before the program starts", func(t *testing.T) {
		resp := send(t, app, http.MethodGet, "/api/today", "")
		if resp.Code != http.StatusConflict {
			t.Errorf("got status %d, want 409", resp.Code)
		}
	})

	t.Run("start date must be a valid date", func(t *testing.T) {
		resp := send(t, app, http.MethodPut, "/api/program", `{"start_date":"not-a-date"}`)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want 400", resp.Code)
		}
	})

	t.Run("start date off the anchor weekday is rejected", func(t *testing.T) {
		tuesday := lastAnchorMonday().AddDate(0, 0, 1)
		body := `{"start_date":"` + tuesday.Format("2006-01-02") + `"}`
		resp := send(t, app, http.MethodPut, "/api/program", body)
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("got status %d, want 422", resp.Code)
		}
	})

	t.Run("valid start date establishes the program", func(t *testing.T) {
		start := startProgram(t, app)

		resp := send(t, app, http.MethodGet, "/api/progress", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", resp.Code)
		}
		progress := decodeJSON[progressJSON](t, resp)
		if !progress.Started {
			t.Error("expected the program to be started")
		}
		if progress.StartDate != start.Format("2006-01-02") {
			t.Errorf("got start date %q, want %q", progress.StartDate, start.Format("2006-01-02"))
		}
		// Two weeks elapsed, so the backfill has completed days behind it.
		if progress.CycleStats.Completed == 0 {
			t.Error("expected backfilled completed days")
		}
		if progress.CurrentCyclePercent <= 0 {
			t.Errorf("got %f%%, want positive progress", progress.CurrentCyclePercent)
		}
	})

	t.Run("clearing the program deletes everything", func(t *testing.T) {
		resp := send(t, app, http.MethodDelete, "/api/program", "")
		if resp.Code != http.StatusNoContent {
			t.Fatalf("got status %d, want 204", resp.Code)
		}

		resp = send(t, app, http.MethodGet, "/api/today", "")
		if resp.Code != http.StatusConflict {
			t.Errorf("got status %d, want 409", resp.Code)
		}

		resp = send(t, app, http.MethodGet, "/api/progress", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", resp.Code)
		}
		progress := decodeJSON[progressJSON](t, resp)
		if progress.Started || progress.CycleStats.Completed != 0 {
			t.Errorf("got %+v, want an unstarted zero state", progress)
		}
	})
}
