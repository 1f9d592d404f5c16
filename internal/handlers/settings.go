package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/festboard/internal/app"
)

type SettingsHandler struct {
	service *app.Service
}

func NewSettingsHandler(service *app.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Settings(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) SetRegistration(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var body struct {
		Open *bool `json:"open"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Open == nil {
		writeError(w, http.StatusBadRequest, "expected {\"open\": true|false}")
		return
	}

	settings, err := h.service.SetRegistrationGate(r.Context(), sess, *body.Open)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
