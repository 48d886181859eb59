package resettokenmanager

import (
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/user"
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

// Manager implements the password reset token lifecycle over a repository the
// caller supplies, so that issue and consume take part in the caller's
// transaction.
type Manager struct {
	generator     user.PasswordResetTokenGenerator
	validDuration time.Duration
	now           func() time.Time
}

func New(
	generator user.PasswordResetTokenGenerator,
	validDuration time.Duration,
	now func() time.Time,
) *Manager {
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Manager{generator: generator, validDuration: validDuration, now: now}
}

func (m *Manager) Issue(
	ctx context.Context,
	resets user.PasswordResetRepository,
	userID user.ID,
) (token user.PasswordResetToken, err error) {
	err = resets.DeleteForUser(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrResetTokenNotFound) {
		return token, err
	}
	token = m.generator.GeneratePasswordResetToken()
	_, err = resets.Create(ctx, user.CreatePasswordResetInput{
		Token:     token,
		UserID:    userID,
		CreatedAt: m.now(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (m *Manager) Validate(
	ctx context.Context,
	resets user.PasswordResetRepository,
	token user.PasswordResetToken,
) (userID user.ID, err error) {
	reset, err := resets.GetByToken(ctx, token)
	if err != nil {
		return userID, err
	}
	// The store looks tokens up by exact match, but compare the bytes again in
	// constant time in case the backend index is not timing-safe.
	if subtle.ConstantTimeCompare([]byte(reset.Token), []byte(token)) != 1 {
		return userID, user.ErrResetTokenNotFound
	}
	// age == validDuration is still valid, only age > validDuration expires.
	if m.now().Sub(reset.CreatedAt) > m.validDuration {
		return userID, user.ErrResetTokenExpired
	}
	return reset.UserID, nil
}

func (m *Manager) Consume(
	ctx context.Context,
	resets user.PasswordResetRepository,
	token user.PasswordResetToken,
) (userID user.ID, err error) {
	userID, err = m.Validate(ctx, resets, token)
	if err != nil {
		return userID, err
	}
	// A concurrent consumer may have already deleted the row; exactly one
	// caller wins, the other observes ErrResetTokenNotFound.
	if err = resets.DeleteByToken(ctx, token); err != nil {
		return user.ID(0), err
	}
	return userID, nil
}
