package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loan-portal/internal/domain/customer"
	"loan-portal/internal/pkg/apperrors"
)

const (
	insertUserQuery = `
        INSERT INTO users (first_name, last_name, id_number, phone, pin, signup_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	findUserByPhoneQuery = `
        SELECT id, first_name, last_name, id_number, phone, pin, signup_date, created_at
        FROM users
        WHERE phone = $1`
)

// UserRepository stores accounts in the users table.
type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.AccountRepository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	if db == nil {
		panic("DBPool cannot be nil for UserRepository")
	}
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "UserRepository"),
	}
}

func (r *UserRepository) Create(ctx context.Context, acc *customer.Account) error {
	if acc == nil {
		return fmt.Errorf("%w: account cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("operation", "Create"), slog.String("phone", acc.Phone))
	logCtx.InfoContext(ctx, "Attempting to insert new user")

	err := r.db.QueryRow(ctx, insertUserQuery,
		acc.FirstName,
		acc.LastName,
		acc.IDNumber,
		acc.Phone,
		acc.PIN,
		acc.SignupDate,
	).Scan(
		&acc.AccountID,
		&acc.CreatedAt,
	)
	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Failed to insert user due to unique constraint violation")
			return translatedErr
		}
		logCtx.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return translatedErr
	}

	logCtx.InfoContext(ctx, "Successfully inserted user", slog.Int64("accountID", acc.AccountID))
	return nil
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*customer.Account, error) {
	logCtx := r.logger.With(slog.String("operation", "FindByPhone"), slog.String("phone", phone))
	logCtx.DebugContext(ctx, "Attempting to find user by phone")

	acc := &customer.Account{}
	err := r.db.QueryRow(ctx, findUserByPhoneQuery, phone).Scan(
		&acc.AccountID,
		&acc.FirstName,
		&acc.LastName,
		&acc.IDNumber,
		&acc.Phone,
		&acc.PIN,
		&acc.SignupDate,
		&acc.CreatedAt,
	)
	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "User not found")
		}
		return nil, translatedErr
	}
	return acc, nil
}
