// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/logger"
)

// Envelope is the JSON shape of every /api response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(body); err != nil {
		log.WithError(err).Error("Error encoding response")
	}
}

func writeData(w http.ResponseWriter, r *http.Request, data any, log *logger.Logger) {
	writeJSON(w, r, http.StatusOK, Envelope{Success: true, Data: data}, log)
}

// writeError maps domain errors to their status; anything else is a 500 with
// a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	var domainErr *errors.Error
	if !errors.As(err, &domainErr) {
		log.WithError(err).Error("Unhandled error", "path", r.URL.Path)
		domainErr = errors.ErrInternal
	}

	writeJSON(w, r, domainErr.HTTPStatus(), Envelope{
		Success: false,
		Error:   domainErr.Message,
		Code:    string(domainErr.Code),
		Details: domainErr.Details,
	}, log)
}
