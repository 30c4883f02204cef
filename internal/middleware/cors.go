// Package middleware holds the HTTP middleware shared by the API server.
package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Cors allows the configured origins to call the API from a browser.
// An empty list allows any origin.
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         3600,
	})
}
