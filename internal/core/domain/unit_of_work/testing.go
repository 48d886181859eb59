package uow

import (
	"accountd/internal/core/domain/user"
	"context"
	"fmt"
)

type FakeUnitOfWorkContext struct {
	UserRepository          *user.FakeUserRepository
	PasswordResetRepository *user.FakePasswordResetRepository
	WasRollbackCalled       bool
	WasCommitCalled         bool
	CommitError             bool
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	passwordResetRepository *user.FakePasswordResetRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:          userRepository,
		PasswordResetRepository: passwordResetRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.WasCommitCalled = true
	if c.CommitError {
		return fmt.Errorf("could not commit unit of work")
	}
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) PasswordResets() user.PasswordResetRepository {
	return c.PasswordResetRepository
}

type FakeUnitOfWork struct {
	Context *FakeUnitOfWorkContext
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(
			user.NewFakeUserRepository(),
			user.NewFakePasswordResetRepository(),
		),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	return u.Context, nil
}
