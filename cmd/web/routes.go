package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	standard := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logRequest(secureHeaders(app.timeout(next))))
	}

	mux.Handle("GET /api/healthy", standard(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/today", standard(http.HandlerFunc(app.todayGET)))
	mux.Handle("GET /api/progress", standard(http.HandlerFunc(app.progressGET)))
	mux.Handle("GET /api/week", standard(http.HandlerFunc(app.weekGET)))
	mux.Handle("GET /api/schedule/{day}", standard(http.HandlerFunc(app.scheduleDayGET)))

	mux.Handle("POST /api/sessions/{date}/complete", standard(http.HandlerFunc(app.sessionCompletePOST)))
	mux.Handle("POST /api/sessions/{date}/skip", standard(http.HandlerFunc(app.sessionSkipPOST)))
	mux.Handle("DELETE /api/sessions/{date}", standard(http.HandlerFunc(app.sessionDELETE)))

	mux.Handle("PUT /api/program", standard(http.HandlerFunc(app.programPUT)))
	mux.Handle("DELETE /api/program", standard(http.HandlerFunc(app.programDELETE)))

	return mux
}
