package user

import (
	e "accountd/internal/core/domain/errors"
	"accountd/internal/core/domain/user"
	"accountd/internal/db"
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
)

type PgxPasswordResetRepository struct {
	db db.Queryable
}

func NewPgxPasswordResetRepository(db db.Queryable) *PgxPasswordResetRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxPasswordResetRepository{db: db}
}

func (r *PgxPasswordResetRepository) Create(
	ctx context.Context,
	input user.CreatePasswordResetInput,
) (reset user.PasswordReset, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO password_reset (token, user_id, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING token, user_id, created_at`,
		string(input.Token),
		int64(input.UserID),
		input.CreatedAt,
	)
	return scanPasswordReset(row)
}

func (r *PgxPasswordResetRepository) GetByToken(
	ctx context.Context,
	token user.PasswordResetToken,
) (reset user.PasswordReset, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT token, user_id, created_at FROM password_reset WHERE token = $1`,
		string(token),
	)
	reset, err = scanPasswordReset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return reset, user.ErrResetTokenNotFound
	}
	return reset, err
}

func (r *PgxPasswordResetRepository) DeleteByToken(ctx context.Context, token user.PasswordResetToken) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM password_reset WHERE token = $1`,
		string(token),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrResetTokenNotFound
	}
	return nil
}

func (r *PgxPasswordResetRepository) DeleteForUser(ctx context.Context, userID user.ID) error {
	_, err := r.db.Exec(
		ctx,
		`DELETE FROM password_reset WHERE user_id = $1`,
		int64(userID),
	)
	return err
}

func scanPasswordReset(row pgx.Row) (reset user.PasswordReset, err error) {
	var token string
	var userID int64
	if err := row.Scan(&token, &userID, &reset.CreatedAt); err != nil {
		return reset, err
	}
	reset.Token = user.PasswordResetToken(token)
	reset.UserID = user.ID(userID)
	return reset, nil
}
