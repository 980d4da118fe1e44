package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/nikbrunner/favdash/internal/cache"
	"github.com/nikbrunner/favdash/internal/source"
)

// maxBodySize caps request bodies; the API only takes tiny JSON objects.
const maxBodySize = 1 << 20

// errNotJSON rejects bodies that were not sent as application/json. Form and
// text/plain posts skip the CORS preflight, so they must not reach a handler.
var errNotJSON = errors.New("content type must be application/json")

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// respondJSON marshals first so an encoding failure still yields a clean 500.
func respondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	payload, _ := json.Marshal(ErrorBody{Error: ErrorDetail{Code: code, Message: message, Status: status}})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// respondErr maps domain errors to HTTP statuses.
func respondErr(w http.ResponseWriter, err error) {
	status, code := classify(err)
	respondError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, source.ErrInvalidMove):
		return http.StatusBadRequest, "invalid_move"
	case errors.Is(err, source.ErrReadOnly):
		return http.StatusConflict, "read_only"
	case errors.Is(err, cache.ErrFetch):
		return http.StatusBadGateway, "fetch_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// parseJSON decodes a size-limited request body into dest.
func parseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errNotJSON
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
