package user

import (
	"context"
	"time"
)

// PasswordResetTokenLength is the exact length of every issued reset token.
const PasswordResetTokenLength = 16

type PasswordResetToken string

// PasswordReset is the single outstanding reset attempt for a user. A user has
// zero or one row at any time; issuing a new token replaces the old one.
type PasswordReset struct {
	Token     PasswordResetToken
	UserID    ID
	CreatedAt time.Time
}

type CreatePasswordResetInput struct {
	Token     PasswordResetToken
	UserID    ID
	CreatedAt time.Time
}

type PasswordResetRepository interface {
	Create(ctx context.Context, input CreatePasswordResetInput) (PasswordReset, error)
	GetByToken(ctx context.Context, token PasswordResetToken) (PasswordReset, error)
	DeleteByToken(ctx context.Context, token PasswordResetToken) error
	DeleteForUser(ctx context.Context, userID ID) error
}

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() PasswordResetToken
}

// PasswordResetTokenManager owns the token lifecycle. Every method runs against
// the repository supplied by the caller so that it takes part in the caller's
// transaction.
type PasswordResetTokenManager interface {
	// Issue replaces any existing token for the user and returns the new one.
	// After the call exactly one PasswordReset row exists for the user.
	Issue(ctx context.Context, resets PasswordResetRepository, userID ID) (PasswordResetToken, error)
	// Validate checks the token without consuming it. Returns
	// ErrResetTokenNotFound or ErrResetTokenExpired on failure.
	Validate(ctx context.Context, resets PasswordResetRepository, token PasswordResetToken) (ID, error)
	// Consume validates the token and deletes its row in the same step. This is
	// the only path that terminates a valid token. On failure nothing is deleted.
	Consume(ctx context.Context, resets PasswordResetRepository, token PasswordResetToken) (ID, error)
}

type PasswordResetRequestedPublisher interface {
	PublishPasswordResetRequested(ctx context.Context, u User, token PasswordResetToken) error
}

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, u User, token PasswordResetToken) error
}
