package uow

import (
	"accountd/internal/core/domain/user"
	"context"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	PasswordResets() user.PasswordResetRepository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
