package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll returns all users ordered by username
	FindAll(ctx context.Context) ([]User, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// CountByRole returns the number of users holding role
	CountByRole(ctx context.Context, role Role) (int64, error)

	// NextID returns max(id)+1
	NextID(ctx context.Context) (int64, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user by username
	Delete(ctx context.Context, username string) error
}
