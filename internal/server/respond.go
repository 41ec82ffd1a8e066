package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"settleup/internal/models"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// errorStatus maps the engine's error taxonomy to HTTP status and a stable
// code string clients can branch on.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrNotParticipant):
		return http.StatusForbidden, "NOT_PARTICIPANT"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, models.ErrInvalidOperation):
		return http.StatusConflict, "INVALID_OPERATION"
	case errors.Is(err, models.ErrIncomplete):
		return http.StatusConflict, "INCOMPLETE"
	case errors.Is(err, models.ErrForgedSignature):
		return http.StatusBadRequest, "FORGED_SIGNATURE"
	case errors.Is(err, models.ErrGateway):
		return http.StatusBadGateway, "GATEWAY"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return nil
}
