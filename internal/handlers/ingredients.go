// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/flavorgraph/core/internal/errors"
)

const defaultSearchLimit = 20

type IngredientsRequest struct {
	Query string `json:"q" validate:"max=100"`
	Limit int    `json:"limit" validate:"gte=0,lte=1000"`
}

type IngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
	Total       int      `json:"total"`
}

// Ingredients lists main ingredients for the selection widget. Without q it
// returns every main sorted by name; with q it returns the best matches.
func (h *Handlers) Ingredients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := IngredientsRequest{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, errors.ValidationWithDetails("validation failed", map[string]string{
				"limit": "must be a number",
			}), h.log)
			return
		}
		req.Limit = limit
	}

	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	idx := h.store.Index()
	if idx == nil {
		writeError(w, r, errors.Unavailable("dataset not loaded"), h.log)
		return
	}

	var names []string
	if req.Query == "" {
		names = idx.Mains()
		if req.Limit > 0 && len(names) > req.Limit {
			names = names[:req.Limit]
		}
	} else {
		limit := req.Limit
		if limit == 0 {
			limit = defaultSearchLimit
		}

		var err error
		names, err = h.lookup(req.Query, limit)
		if err != nil {
			writeError(w, r, err, h.log)
			return
		}
	}

	writeData(w, r, IngredientsResponse{Ingredients: names, Total: len(names)}, h.log)
}

// lookup uses the search index when one is configured and falls back to a
// prefix scan of the mains otherwise.
func (h *Handlers) lookup(q string, limit int) ([]string, error) {
	if h.search != nil {
		return h.search.Search(q, limit)
	}

	q = strings.ToLower(q)
	names := []string{}
	for _, name := range h.store.Index().Mains() {
		if strings.HasPrefix(name, q) {
			names = append(names, name)
			if len(names) == limit {
				break
			}
		}
	}
	return names, nil
}
