package sendpasswordresettoken

import (
	c "accountd/internal/core/domain/common"
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/logging"
	uow "accountd/internal/core/domain/unit_of_work"
	"accountd/internal/core/domain/user"
	"accountd/internal/core/services"
	"context"
	"errors"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "password-reset::" + string(i.Email)
}

type Result struct {
	Token user.PasswordResetToken
}

type service struct {
	log          logging.Logger
	unitOfWork   uow.UnitOfWork
	tokenManager user.PasswordResetTokenManager
	publisher    user.PasswordResetRequestedPublisher
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	tokenManager user.PasswordResetTokenManager,
	publisher user.PasswordResetRequestedPublisher,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if tokenManager == nil {
		panic(e.NewNilArgumentError("tokenManager"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	return &service{
		log:          log,
		unitOfWork:   unitOfWork,
		tokenManager: tokenManager,
		publisher:    publisher,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Respond exactly as in the success case so that the endpoint cannot
		// be used to probe which addresses have an account.
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", input.Email))
		return result, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	token, err := s.tokenManager.Issue(ctx, uow.PasswordResets(), u.ID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	// The token is already persisted, a publish failure must not undo it.
	if err := s.publisher.PublishPasswordResetRequested(ctx, u, token); err != nil {
		s.log.Error(
			ctx,
			"Could not publish password reset requested event.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
	}

	s.log.Info(ctx, "Password reset token has been issued.", logging.Entry("userID", u.ID))
	return Result{Token: token}, nil
}
