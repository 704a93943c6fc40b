package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestScheduleDay(t *testing.T) {
	app := newTestApplication(t)

	t.Run("renders the description to HTML", func(t *testing.T) {
		resp := send(t, app, http.MethodGet, "/api/schedule/1", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", resp.Code)
		}
		day := decodeJSON[scheduleDayJSON](t, resp)
		if day.DayInCycle != 1 || day.WeekInCycle != 1 {
			t.Errorf("got day %d week %d, want day 1 week 1", day.DayInCycle, day.WeekInCycle)
		}
		if day.Title != "Fit Test" || day.Category != "fit_test" {
			t.Errorf("got %q/%q, want the fit test", day.Title, day.Category)
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(day.DescriptionHTML))
		if err != nil {
			t.Fatalf("parse description HTML: %v", err)
		}
		if got := doc.Find("h2").Text(); got != "Fit Test" {
			t.Errorf("got heading %q, want %q", got, "Fit Test")
		}
	})

	t.Run("every seventh day rests", func(t *testing.T) {
		resp := send(t, app, http.MethodGet, "/api/schedule/7", "")
		if resp.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", resp.Code)
		}
		day := decodeJSON[scheduleDayJSON](t, resp)
		if day.Category != "rest" || day.DurationMinutes != 0 {
			t.Errorf("got %q/%d min, want a rest day", day.Category, day.DurationMinutes)
		}
	})

	t.Run("days outside the cycle are rejected", func(t *testing.T) {
		resp := send(t, app, http.MethodGet, "/api/schedule/64", "")
		if resp.Code != http.StatusUnprocessableEntity {
			t.Errorf("got status %d, want 422", resp.Code)
		}
	})

	t.Run("non-numeric days are not found", func(t *testing.T) {
		resp := send(t, app, http.MethodGet, "/api/schedule/first", "")
		if resp.Code != http.StatusNotFound {
			t.Errorf("got status %d, want 404", resp.Code)
		}
	})
}
