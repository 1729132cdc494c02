package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "hashed_password", "created_at", "updated_at"}

func newUserMock(t *testing.T) (sqlmock.Sqlmock, *UserStore) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return mock, NewUserStore(db, testLogger())
}

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("inserts normalized email", func(t *testing.T) {
		mock, users := newUserMock(t)
		user, err := domain.NewUser("Ada@Example.com", "$2a$10$hash")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, "ada@example.com", "$2a$10$hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, users.Create(context.Background(), user))
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, users := newUserMock(t)
		user, err := domain.NewUser("ada@example.com", "$2a$10$hash")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailConstraint})

		assert.ErrorIs(t, users.Create(context.Background(), user), store.ErrEmailExists)
	})

	t.Run("duplicate id is not reported as a taken email", func(t *testing.T) {
		mock, users := newUserMock(t)
		user, err := domain.NewUser("ada@example.com", "$2a$10$hash")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_pkey"})

		err = users.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NotErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user", func(t *testing.T) {
		_, users := newUserMock(t)
		assert.ErrorIs(t, users.Create(context.Background(), &domain.User{}), store.ErrInvalidEntity)
	})
}

func TestUserStoreGet(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Now().UTC()

	t.Run("by email", func(t *testing.T) {
		mock, users := newUserMock(t)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(id.String(), "ada@example.com", "$2a$10$hash", now, now))

		user, err := users.GetByEmail(context.Background(), "  ADA@example.com ")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "$2a$10$hash", user.HashedPassword)
	})

	t.Run("by id not found", func(t *testing.T) {
		mock, users := newUserMock(t)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userCols))

		_, err := users.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		mock, users := newUserMock(t)
		mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(errors.New("connection reset"))

		_, err := users.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrUserNotFound)
	})
}
