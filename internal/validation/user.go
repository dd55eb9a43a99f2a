package validation

import (
	"strings"

	"github.com/tregeagle/finagle/internal/api/request"
)

const maxUsernameLength = 100

// ValidateCreateUser checks the username is present and not too long.
func ValidateCreateUser(req request.CreateUserRequest) error {
	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		return &Error{Fields: map[string]string{"username": "username is required"}}
	case len(username) > maxUsernameLength:
		return &Error{Fields: map[string]string{"username": "username must be at most 100 characters"}}
	}
	return nil
}
