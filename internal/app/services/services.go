package services

import (
	"accountd/internal/app/deps"
	drl "accountd/internal/core/domain/rate_limiter"
	"accountd/internal/core/services"
	ratelimiting "accountd/internal/core/services/rate_limiting"
	resetpassword "accountd/internal/core/services/reset_password"
	sendpasswordresetemail "accountd/internal/core/services/send_password_reset_email"
	sendpasswordresettoken "accountd/internal/core/services/send_password_reset_token"
)

type Services struct {
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	SendPasswordResetEmail services.Service[sendpasswordresetemail.Input, sendpasswordresetemail.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordResetTokenManager,
			deps.PasswordResetRequestedPublisher,
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordResetTokenManager,
		deps.PasswordHasher,
	)
	s.SendPasswordResetEmail = sendpasswordresetemail.New(
		deps.Logger,
		deps.PasswordResetTokenSender,
	)

	return s
}
