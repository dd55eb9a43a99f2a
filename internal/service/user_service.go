package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/repository"
)

// UserService handles user accounts.
type UserService struct {
	userRepo *repository.UserRepository
	reports  ReportInvalidator
}

// NewUserService creates a new UserService with the provided repository dependencies.
func NewUserService(userRepo *repository.UserRepository, reports ReportInvalidator) *UserService {
	return &UserService{
		userRepo: userRepo,
		reports:  reports,
	}
}

// GetOrCreateUser returns the user with the given username, creating it when
// it does not exist yet. created reports whether a new user was stored.
func (s *UserService) GetOrCreateUser(ctx context.Context, username string) (user model.User, created bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, false, apperrors.ErrInvalidUsername
	}

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return model.User{}, false, err
	}

	user = model.User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		// Lost a race with a concurrent create of the same username.
		if existing, getErr := s.userRepo.GetByUsername(ctx, username); getErr == nil {
			return existing, false, nil
		}
		return model.User{}, false, fmt.Errorf("failed to create user: %w", err)
	}
	return user, true, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// DeleteUser removes a user and all of their transactions.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.reports.Invalidate(userID)
	return nil
}
