package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrResetTokenNotFound = errors.New("password reset token not found")
	ErrResetTokenExpired  = errors.New("password reset token expired")

	// ErrInvalidPasswordResetToken is the externally visible error: not-found,
	// expired and owner mismatch all collapse into it so that a caller cannot
	// tell which case occurred.
	ErrInvalidPasswordResetToken = errors.New("invalid password reset token")
)
