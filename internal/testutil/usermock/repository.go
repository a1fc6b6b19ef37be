package usermock

import (
	"context"
	"errors"

	domain "lendora-backend/internal/domain/user"
)

var errUnimplemented = errors.New("usermock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, u *domain.User) error
	GetByUserIDFn      func(ctx context.Context, userID string) (*domain.User, error)
	GetByCredentialsFn func(ctx context.Context, email, password string) (*domain.User, error)
	ListFn             func(ctx context.Context) ([]domain.User, error)
	ListByRoleFn       func(ctx context.Context, role domain.Role) ([]domain.User, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	if m.GetByCredentialsFn != nil {
		return m.GetByCredentialsFn(ctx, email, password)
	}
	return nil, errUnimplemented
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}
	return nil, errUnimplemented
}
