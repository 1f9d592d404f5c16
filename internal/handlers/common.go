package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/observability"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func statusFor(err error) int {
	var (
		verr *app.ValidationError
		nf   *app.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, app.ErrRegistrationClosed):
		return http.StatusLocked
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, app.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a workflow error to its status code. Only unexpected errors are
// logged and reported; their details never reach the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		observability.CaptureRequestErr(r, err)
		writeError(w, status, "internal error")
		return
	}

	var verr *app.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, map[string]string{"error": verr.Reason, "rule": verr.Rule})
		return
	}
	writeError(w, status, err.Error())
}
