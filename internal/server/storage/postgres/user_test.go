package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/storage"
)

var userRowColumns = []string{
	"id", "email", "full_name", "hashed_password", "is_active", "is_superuser", "created_at", "updated_at",
}

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewWithDB(db), mock
}

func testUser() *models.User {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &models.User{
		ID:             uuid.NewString(),
		Email:          "alice@example.com",
		FullName:       "Alice",
		HashedPassword: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateUser(t *testing.T) {
	u := testUser()

	tests := []struct {
		dbErr   error
		wantErr error
		name    string
	}{
		{name: "success"},
		{name: "duplicate email", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: storage.ErrUserAlreadyExists},
		{name: "db down", dbErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			exp := mock.ExpectExec(`^INSERT INTO users \(id, email, full_name, hashed_password, is_active, is_superuser, created_at, updated_at\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)$`).
				WithArgs(u.ID, u.Email, u.FullName, u.HashedPassword, u.IsActive, u.IsSuperuser, u.CreatedAt, u.UpdatedAt)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := s.CreateUser(context.Background(), u)
			switch {
			case tt.dbErr == nil:
				require.NoError(t, err)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "db down")
				assert.NotErrorIs(t, err, storage.ErrUserAlreadyExists)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetUserByEmail(t *testing.T) {
	u := testUser()
	q := `^SELECT id, email, full_name, hashed_password, is_active, is_superuser, created_at, updated_at FROM users WHERE email = \$1$`

	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectQuery(q).
			WithArgs(u.Email).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(u.ID, u.Email, u.FullName, u.HashedPassword, u.IsActive, u.IsSuperuser, u.CreatedAt, u.UpdatedAt))

		got, err := s.GetUserByEmail(context.Background(), u.Email)
		require.NoError(t, err)
		assert.Equal(t, u, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectQuery(q).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

		got, err := s.GetUserByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		assert.Nil(t, got)
	})

	t.Run("db error", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectQuery(q).WithArgs(u.Email).WillReturnError(errors.New("boom"))

		_, err := s.GetUserByEmail(context.Background(), u.Email)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db error: boom")
	})
}

func TestGetUserByID(t *testing.T) {
	u := testUser()

	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectQuery(`FROM users WHERE id = \$1$`).
			WithArgs(u.ID).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(u.ID, u.Email, u.FullName, u.HashedPassword, u.IsActive, u.IsSuperuser, u.CreatedAt, u.UpdatedAt))

		got, err := s.GetUserByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id never hits the database", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		got, err := s.GetUserByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListUsersAndCount(t *testing.T) {
	s, mock := newStorageWithMock(t)
	a, b := testUser(), testUser()
	b.Email = "bob@example.com"

	mock.ExpectQuery(`FROM users ORDER BY created_at, id LIMIT \$1 OFFSET \$2$`).
		WithArgs(2, 10).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(a.ID, a.Email, a.FullName, a.HashedPassword, a.IsActive, a.IsSuperuser, a.CreatedAt, a.UpdatedAt).
			AddRow(b.ID, b.Email, b.FullName, b.HashedPassword, b.IsActive, b.IsSuperuser, b.CreatedAt, b.UpdatedAt))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM users$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	users, err := s.ListUsers(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)

	count, err := s.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser(t *testing.T) {
	u := testUser()
	q := `^UPDATE users SET email = \$1, full_name = \$2, hashed_password = \$3, is_active = \$4, is_superuser = \$5, updated_at = \$6 WHERE id = \$7$`

	tests := []struct {
		dbErr    error
		wantErr  error
		name     string
		affected int64
	}{
		{name: "updated", affected: 1},
		{name: "missing row", affected: 0, wantErr: storage.ErrUserNotFound},
		{name: "email taken", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: storage.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			exp := mock.ExpectExec(q).
				WithArgs(u.Email, u.FullName, u.HashedPassword, u.IsActive, u.IsSuperuser, u.UpdatedAt, u.ID)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := s.UpdateUser(context.Background(), u)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteUser(t *testing.T) {
	id := uuid.NewString()

	t.Run("deleted", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(`^DELETE FROM users WHERE id = \$1$`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.DeleteUser(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(`^DELETE FROM users WHERE id = \$1$`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.DeleteUser(context.Background(), id), storage.ErrUserNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		assert.ErrorIs(t, s.DeleteUser(context.Background(), "42"), storage.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunMigrations(t *testing.T) {
	s, _ := newStorageWithMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, s.runMigrations(context.Background()))
	assert.Equal(t, "migrations", gotDir)

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("migration failed")
	}
	err := s.runMigrations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed")
}
