// Package handler holds the HTTP handlers. Each handler depends on a narrow
// interface over the service it calls.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
	"github.com/kiranshivaraju/weddingdesk/internal/layout"
)

const maxBodyBytes = 1 << 20

// writeServiceError maps the service error kinds onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		var details any
		if ve.Field != "" {
			details = map[string]string{"field": ve.Field}
		}
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), details)
	case errors.Is(err, apperr.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, apperr.ErrAccessDenied):
		response.Error(w, http.StatusUnauthorized, "ACCESS_DENIED", "Invalid or expired credentials", nil)
	case errors.Is(err, apperr.ErrPersistence):
		slog.Error("persistence failure", "method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "PERSISTENCE_ERROR", err.Error(), nil)
	default:
		slog.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

// writeChairsNotCreated reports a table that was saved without its chairs.
func writeChairsNotCreated(w http.ResponseWriter, r *http.Request, err error, table any) {
	slog.Error("table saved without chairs", "path", r.URL.Path, "error", err)
	response.Error(w, http.StatusInternalServerError, "CHAIRS_NOT_CREATED", err.Error(), map[string]any{
		"table": table,
	})
}

func isChairsNotCreated(err error) bool {
	return errors.Is(err, layout.ErrChairsNotCreated)
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
		return false
	}
	return true
}

// pathUUID parses a chi URL parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}
