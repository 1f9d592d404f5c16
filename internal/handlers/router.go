package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/festboard/internal/app"
)

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter wires every API route. Read-only standings and the gate state are public;
// everything else needs a session.
func NewRouter(service *app.Service) http.Handler {
	mux := http.NewServeMux()
	protected := RequireSession(service)

	mux.HandleFunc("GET /healthz", Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	authHandler := NewAuthHandler(service)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("POST /api/v1/auth/logout", protected(http.HandlerFunc(authHandler.Logout)))

	eventHandler := NewEventHandler(service)
	mux.Handle("GET /api/v1/events", protected(http.HandlerFunc(eventHandler.List)))
	mux.Handle("POST /api/v1/events", protected(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("DELETE /api/v1/events", protected(http.HandlerFunc(eventHandler.Reset)))
	mux.Handle("DELETE /api/v1/events/{id}", protected(http.HandlerFunc(eventHandler.Delete)))
	mux.Handle("POST /api/v1/events/{id}/result", protected(http.HandlerFunc(eventHandler.PublishResult)))
	mux.Handle("DELETE /api/v1/events/{id}/result", protected(http.HandlerFunc(eventHandler.DeleteResult)))

	studentHandler := NewStudentHandler(service)
	mux.Handle("GET /api/v1/students", protected(http.HandlerFunc(studentHandler.List)))
	mux.Handle("POST /api/v1/students", protected(http.HandlerFunc(studentHandler.Create)))
	mux.Handle("PUT /api/v1/students/{id}", protected(http.HandlerFunc(studentHandler.Update)))
	mux.Handle("DELETE /api/v1/students/{id}", protected(http.HandlerFunc(studentHandler.Delete)))
	mux.Handle("POST /api/v1/students/{id}/events/{eventId}/star", protected(http.HandlerFunc(studentHandler.ToggleStar)))
	mux.Handle("POST /api/v1/students/{id}/events/{eventId}/status", protected(http.HandlerFunc(studentHandler.SetStatus)))

	dashboardHandler := NewDashboardHandler(service)
	mux.HandleFunc("GET /api/v1/dashboard", dashboardHandler.Stats)
	mux.HandleFunc("GET /api/v1/dashboard/export.xlsx", dashboardHandler.Export)

	settingsHandler := NewSettingsHandler(service)
	mux.HandleFunc("GET /api/v1/settings", settingsHandler.Get)
	mux.Handle("POST /api/v1/settings/registration", protected(http.HandlerFunc(settingsHandler.SetRegistration)))

	return instrument(mux)
}
