// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"bytes"
	"net/http"

	"github.com/flavorgraph/core/internal/page"
)

// Page serves the HTML page with the active dataset embedded.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idx := h.store.Index()
	if idx == nil {
		http.Error(w, "Dataset not loaded", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := page.Render(&buf, h.template, idx.Records()); err != nil {
		h.log.WithError(err).Error("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.WithError(err).Warn("Failed to write page")
	}
}
