// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/parser"
	"github.com/flavorgraph/core/internal/selector"
)

const maxBodyBytes = 64 << 10

// GraphRequest is accepted as query parameters on GET
// (?ingredients=a&ingredients=b&mutual=true) or as a JSON body on POST.
type GraphRequest struct {
	Ingredients []string `json:"ingredients" validate:"dive,required,max=100"`
	Mutual      bool     `json:"mutual"`
}

func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	var (
		req GraphRequest
		err error
	)

	switch r.Method {
	case http.MethodGet:
		req, err = graphRequestFromQuery(r)
	case http.MethodPost:
		req, err = graphRequestFromBody(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err, h.log)
		return
	}
	if err := h.validator.ValidateVar("ingredients", req.Ingredients, fmt.Sprintf("max=%d", h.maxSelection)); err != nil {
		writeError(w, r, err, h.log)
		return
	}

	idx := h.store.Index()
	if idx == nil {
		writeError(w, r, errors.Unavailable("dataset not loaded"), h.log)
		return
	}

	start := time.Now()
	view := selector.ComputeGraph(idx, req.Ingredients, req.Mutual)
	graph := parser.BuildGraph(view, idx, req.Mutual)
	if h.metrics != nil {
		h.metrics.ObserveGraph(req.Mutual, len(graph.Nodes), time.Since(start))
	}

	h.log.Debug("Graph computed",
		"selected", len(view.Selected()),
		"mutual", req.Mutual,
		"nodes", len(graph.Nodes),
		"edges", len(graph.Edges),
	)

	writeData(w, r, graph, h.log)
}

func graphRequestFromQuery(r *http.Request) (GraphRequest, error) {
	query := r.URL.Query()
	req := GraphRequest{Ingredients: []string{}}

	for _, name := range query["ingredients"] {
		if name = strings.TrimSpace(name); name != "" {
			req.Ingredients = append(req.Ingredients, name)
		}
	}

	if raw := query.Get("mutual"); raw != "" {
		mutual, err := strconv.ParseBool(raw)
		if err != nil {
			return req, errors.ValidationWithDetails("validation failed", map[string]string{
				"mutual": "must be true or false",
			})
		}
		req.Mutual = mutual
	}

	return req, nil
}

func graphRequestFromBody(w http.ResponseWriter, r *http.Request) (GraphRequest, error) {
	var req GraphRequest

	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return req, errors.Validation("failed to read body")
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, errors.Validation("invalid JSON body: " + err.Error())
	}
	if req.Ingredients == nil {
		req.Ingredients = []string{}
	}

	return req, nil
}
