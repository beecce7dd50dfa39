package auth

import (
	"context"

	"kitchenledger/internal/core/id"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// Create returns Duplicate when the email is taken.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail matches the lower-cased email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update saves login bookkeeping and role.
	Update(ctx context.Context, user *User) error

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}
