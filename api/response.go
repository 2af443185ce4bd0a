package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"vgsales-forecaster/models"
)

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON encodes before writing the header; an unencodable payload is
// answered with a 500 error envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		buf.Reset()
		statusCode = http.StatusInternalServerError
		buf.WriteString(`{"status":"error","error":{"code":"internal_error","message":"response could not be encoded"}}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	body := map[string]any{
		"status": "success",
		"data":   data,
	}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, statusCode, body)
}

func writeError(w http.ResponseWriter, statusCode int, code, message, requestID string) {
	writeJSON(w, statusCode, map[string]any{
		"status": "error",
		"error": apiError{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	})
}

func mapDomainError(err error) (int, string, string) {
	var mismatch *models.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		return http.StatusServiceUnavailable, "prediction_unavailable", "prediction unavailable"
	case errors.Is(err, models.ErrInvalidRequest), errors.Is(err, models.ErrInvalidHorizon):
		return http.StatusBadRequest, "invalid_input", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}
