package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByCredentials matches exact email and password equality. The caller
	// must not reveal which of the two was wrong.
	GetByCredentials(ctx context.Context, email, password string) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
