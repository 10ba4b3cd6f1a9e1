// Package handler contains the HTTP handlers for the backend API. Every
// tenant-scoped handler reads the tenant from the request context; the store
// interface makes it impossible to query without one.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/api/response"
)

// decodeJSON decodes the request body into dst and writes a 400 on failure.
// Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}

// pathID parses the named chi URL parameter as a UUID.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}
