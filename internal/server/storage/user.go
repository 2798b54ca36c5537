package storage

import (
	"context"

	"github.com/iudanet/userkeeper/internal/models"
)

//go:generate moq -out user_storage_mock.go . UserStorage

// UserStorage defines interface for user data persistence.
// Emails are stored normalized; uniqueness is enforced by the storage itself.
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns a page of users ordered by creation time
	ListUsers(ctx context.Context, offset, limit int) ([]*models.User, error)

	// CountUsers returns total number of users
	CountUsers(ctx context.Context) (int, error)

	// UpdateUser updates user information
	// Returns ErrUserNotFound if user doesn't exist
	// Returns ErrUserAlreadyExists if the new email is taken by another user
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID string) error
}
