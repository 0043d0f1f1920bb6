package userRepo

import "tasknotify/models"

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// ReplaceRegistrationTokens overwrites the stored device-token list.
	ReplaceRegistrationTokens(id string, tokens []string) error
}
