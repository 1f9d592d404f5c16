package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

type StudentHandler struct {
	service *app.Service
}

func NewStudentHandler(service *app.Service) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.StudentFilter{
		Team:     models.Team(q.Get("team")),
		Category: models.Category(q.Get("category")),
	}

	students, err := h.service.ListStudents(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req app.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Debug.Printf("Bad register body: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.service.RegisterStudent(r.Context(), sess, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req app.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.service.UpdateStudent(r.Context(), sess, r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := h.service.DeleteStudent(r.Context(), sess, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *StudentHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	student, err := h.service.ToggleStar(r.Context(), sess, r.PathValue("id"), r.PathValue("eventId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var body struct {
		Status models.RegistrationStatus `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.service.UpdateRegistrationStatus(r.Context(), sess, r.PathValue("id"), r.PathValue("eventId"), body.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}
