package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tregeagle/finagle/internal/api/request"
	"github.com/tregeagle/finagle/internal/api/response"
	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/service"
	"github.com/tregeagle/finagle/internal/validation"
)

// UserHandler handles HTTP requests for user endpoints.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler with the provided service dependency.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser handles POST requests to log in with a username. The user is
// created on first use.
//
// Endpoint: POST /api/v1/users
// Request Body: CreateUserRequest (username)
// Response: 201 Created with User for a new username, 200 OK for an existing one
// Error: 400 Bad Request if the username is missing
// Error: 500 Internal Server Error if creation fails
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateUserRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateUser(req); err != nil {
		respondServiceError(w, err, "")
		return
	}

	user, created, err := h.userService.GetOrCreateUser(r.Context(), req.Username)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveUser.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.RespondJSON(w, status, user)
}

// GetUser handles GET requests to retrieve a user.
//
// Endpoint: GET /api/v1/users/{userId}
// Response: 200 OK with User
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 404 Not Found if user not found
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveUser.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE requests to remove a user and all their transactions.
//
// Endpoint: DELETE /api/v1/users/{userId}
// Response: 204 No Content
// Error: 404 Not Found if user not found
// Error: 500 Internal Server Error if deletion fails
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "userId")); err != nil {
		respondServiceError(w, err, "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
