package main

import (
	"bytes"
	"net/http"

	"github.com/yuin/goldmark"
)

type scheduleDayJSON struct {
	dayJSON
	DescriptionHTML string `json:"description_html"`
}

// scheduleDayGET returns one template day with its markdown description
// rendered to HTML.
func (app *application) scheduleDayGET(w http.ResponseWriter, r *http.Request) {
	dayInCycle, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}

	day, err := app.program.ScheduleDay(dayInCycle)
	if err != nil {
		app.respondError(w, r, err)
		return
	}

	var description bytes.Buffer
	if err = goldmark.Convert([]byte(day.DescriptionMarkdown), &description); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, scheduleDayJSON{
		dayJSON:         toDayJSON(day),
		DescriptionHTML: description.String(),
	})
}
