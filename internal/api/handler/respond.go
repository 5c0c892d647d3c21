// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"portfolio-tracker/internal/util"
)

// DefaultTimeout bounds how long a single request may run.
const DefaultTimeout = 30 * time.Second

// MaxRequestBodyBytes caps every JSON request body.
const MaxRequestBodyBytes = 1 << 20

// responder holds the JSON helpers shared by every handler.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrValidation):
		statusCode = http.StatusUnprocessableEntity
		message = err.Error()
	case util.IsError(err, util.ErrUsernameTaken):
		statusCode = http.StatusBadRequest
		message = "Username already registered"
	case util.IsError(err, util.ErrEmailTaken):
		statusCode = http.StatusBadRequest
		message = "Email already registered"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusBadRequest
		message = "Resource already exists"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Incorrect username or password"
	case util.IsError(err, util.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
		message = "Invalid or expired token"
	case util.IsError(err, util.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Could not validate credentials"
	case util.IsError(err, util.ErrHoldingNotFound):
		statusCode = http.StatusNotFound
		message = "Stock not found"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// decodeJSON reads a single JSON object of at most MaxRequestBodyBytes from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", util.ErrInvalidInput, MaxRequestBodyBytes)
		}
		return fmt.Errorf("%w: malformed request body", util.ErrInvalidInput)
	}
	return nil
}
