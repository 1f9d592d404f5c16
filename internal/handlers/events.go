package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

type EventHandler struct {
	service *app.Service
}

func NewEventHandler(service *app.Service) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EventFilter{
		Category: models.Category(q.Get("category")),
		Type:     models.EventType(q.Get("type")),
		Status:   models.EventStatus(q.Get("status")),
	}

	events, err := h.service.ListEvents(r.Context(), filter, models.Category(q.Get("visibleTo")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// Create accepts a single event object or an array of them.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var reqs []app.EventRequest
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = strictUnmarshal(trimmed, &reqs)
	} else {
		var single app.EventRequest
		err = strictUnmarshal(trimmed, &single)
		reqs = []app.EventRequest{single}
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	events, err := h.service.CreateEvents(r.Context(), sess, reqs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"events": events})
}

func strictUnmarshal(data []byte, dst interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := h.service.DeleteEvent(r.Context(), sess, r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EventHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	if err := h.service.ResetEvents(r.Context(), sess); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *EventHandler) PublishResult(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	var req app.ResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.service.PublishResult(r.Context(), sess, r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	event, err := h.service.DeleteResult(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
