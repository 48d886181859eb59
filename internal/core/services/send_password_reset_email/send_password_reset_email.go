package sendpasswordresetemail

import (
	c "accountd/internal/core/domain/common"
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/logging"
	"accountd/internal/core/domain/user"
	"accountd/internal/core/services"
	"context"
)

type Input struct {
	UserID user.ID
	Email  c.Email
	Token  user.PasswordResetToken
}

type Result struct{}

type service struct {
	log    logging.Logger
	sender user.PasswordResetTokenSender
}

func New(
	log logging.Logger,
	sender user.PasswordResetTokenSender,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	return &service{log: log, sender: sender}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	err = s.sender.SendPasswordResetToken(
		ctx,
		user.User{ID: input.UserID, Email: input.Email},
		input.Token,
	)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "Password reset token has been sent.", logging.Entry("userID", input.UserID))
	return result, nil
}
