package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"stockfolio/backend/internal/service"
)

// Response is the uniform envelope every endpoint replies with.
type Response struct {
	StatusCode int    `json:"statuscode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// writeError maps a service error kind to an HTTP status. Unknown errors are
// logged and surfaced as a generic internal failure.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrBadRequest),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInsufficientStock):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, nil, "internal server error")
		return
	}
	writeJSON(w, status, nil, errorMessage(err))
}

// errorMessage strips the sentinel prefix left by fmt.Errorf wrapping, so
// "bad request: stockid is required" reads as "stockid is required".
func errorMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrBadRequest, service.ErrNotFound,
		service.ErrUnauthorized, service.ErrForbidden} {
		if trimmed, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return trimmed
		}
	}
	return msg
}
