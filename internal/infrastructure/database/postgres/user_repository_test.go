package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"loan-portal/internal/domain/customer"
	"loan-portal/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations were not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupUserRepo(t *testing.T) (context.Context, *UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	return context.Background(), NewUserRepository(mockPool, logger), mockPool
}

func sampleAccount() *customer.Account {
	return &customer.Account{
		FirstName:  "Amina",
		LastName:   "Otieno",
		IDNumber:   "12345678",
		Phone:      "0712345678",
		PIN:        "1234",
		SignupDate: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}
}

func TestUserRepository_CreateWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	acc := sampleAccount()
	createdAt := time.Date(2026, 10, 19, 8, 0, 1, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
		WithArgs(acc.FirstName, acc.LastName, acc.IDNumber, acc.Phone, acc.PIN, acc.SignupDate).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), createdAt))

	err := repo.Create(ctx, acc)
	require.NoError(t, err)
	assert.Equal(t, int64(42), acc.AccountID)
	assert.Equal(t, createdAt, acc.CreatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUserRepository_CreateWhenDuplicate(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	acc := sampleAccount()
	mockPool.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
		WithArgs(acc.FirstName, acc.LastName, acc.IDNumber, acc.Phone, acc.PIN, acc.SignupDate).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"})

	err := repo.Create(ctx, acc)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.Contains(t, err.Error(), "users_phone_key")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUserRepository_CreateWhenDatabaseError(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	acc := sampleAccount()
	mockPool.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
		WithArgs(acc.FirstName, acc.LastName, acc.IDNumber, acc.Phone, acc.PIN, acc.SignupDate).
		WillReturnError(errors.New("connection reset by peer"))

	err := repo.Create(ctx, acc)
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestUserRepository_CreateNilAccount(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	err := repo.Create(ctx, nil)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestUserRepository_FindByPhone(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()

		want := sampleAccount()
		want.AccountID = 42
		want.CreatedAt = time.Date(2026, 10, 19, 8, 0, 1, 0, time.UTC)

		mockPool.ExpectQuery(regexp.QuoteMeta(findUserByPhoneQuery)).
			WithArgs(want.Phone).
			WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name", "id_number", "phone", "pin", "signup_date", "created_at"}).
				AddRow(want.AccountID, want.FirstName, want.LastName, want.IDNumber, want.Phone, want.PIN, want.SignupDate, want.CreatedAt))

		got, err := repo.FindByPhone(ctx, want.Phone)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("not found", func(t *testing.T) {
		ctx, repo, mockPool := setupUserRepo(t)
		defer mockPool.Close()

		mockPool.ExpectQuery(regexp.QuoteMeta(findUserByPhoneQuery)).
			WithArgs("0700").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByPhone(ctx, "0700")
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestTranslateDBError(t *testing.T) {
	assert.Nil(t, translateDBError(nil, logger))
	assert.True(t, errors.Is(translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound))
	assert.True(t, errors.Is(translateDBError(&pgconn.PgError{Code: "23505"}, logger), apperrors.ErrAlreadyExists))
	assert.True(t, errors.Is(translateDBError(&pgconn.PgError{Code: "42P01"}, logger), apperrors.ErrDatabase))
	assert.True(t, errors.Is(translateDBError(errors.New("boom"), logger), apperrors.ErrDatabase))
}
