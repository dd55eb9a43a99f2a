// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tregeagle/finagle/internal/api/response"
	"github.com/tregeagle/finagle/internal/validation"
)

// ValidateUUIDParam validates that the named URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{userId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDParam("userId"))
//	    r.Get("/", handler.GetUser)
//	})
func ValidateUUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, name)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, "valid UUID is required", name)
				return
			}

			if err := validation.ValidateUUID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
