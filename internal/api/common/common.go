// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/record"
	"github.com/campusweb/content-server/internal/service"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// StatusForError maps a service error to an HTTP status code
func StatusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrResourceNotFound), errors.Is(err, service.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuery), errors.Is(err, service.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIdentityImmutable), errors.Is(err, service.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, service.ErrSubmissionNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrReadOnlySource):
		return http.StatusMethodNotAllowed
	case errors.Is(err, service.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError writes err with the status StatusForError picks.
// Internal errors are logged and replaced by a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusForError(err)
	if code == http.StatusInternalServerError {
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteErrorResponse(w, "internal server error", code)
		return
	}
	WriteErrorResponse(w, err.Error(), code)
}

// MaxRecordBodyBytes bounds the size of a record payload
const MaxRecordBodyBytes = 1 << 20

// DecodeRecordBody reads a single JSON object from the request body.
// Numbers keep their source text.
func DecodeRecordBody(w http.ResponseWriter, r *http.Request) (record.Record, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRecordBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read request body: %v", service.ErrInvalidRecord, err)
	}
	rec, err := record.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidRecord, err)
	}
	return rec, nil
}
