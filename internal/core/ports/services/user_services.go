package services

import (
	"context"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/dto"
)

// UserSvcFacade defines the user account operations backing authentication.
type UserSvcFacade interface {
	// RegisterUser creates a new user with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies a username/password pair and returns the
	// user on success.
	AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
