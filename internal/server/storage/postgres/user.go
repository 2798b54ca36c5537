package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iudanet/userkeeper/internal/models"
	"github.com/iudanet/userkeeper/internal/server/storage"
)

// uniqueViolation код ошибки PostgreSQL unique_violation
const uniqueViolation = "23505"

const userColumns = `id, email, full_name, hashed_password, is_active, is_superuser, created_at, updated_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.HashedPassword,
		user.IsActive,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	// колонка id имеет тип UUID: некорректный идентификатор просто не может существовать
	if !isUUID(userID) {
		return nil, storage.ErrUserNotFound
	}
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (s *Storage) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	user := &models.User{}

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// ListUsers returns a page of users ordered by creation time
func (s *Storage) ListUsers(ctx context.Context, offset, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, limit)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.HashedPassword,
			&user.IsActive,
			&user.IsSuperuser,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

// CountUsers returns total number of users
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

// UpdateUser updates user information
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	if !isUUID(user.ID) {
		return storage.ErrUserNotFound
	}

	query := `UPDATE users
		SET email = $1, full_name = $2, hashed_password = $3, is_active = $4, is_superuser = $5, updated_at = $6
		WHERE id = $7`

	result, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.FullName,
		user.HashedPassword,
		user.IsActive,
		user.IsSuperuser,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(result)
}

// DeleteUser deletes user by ID
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	if !isUUID(userID) {
		return storage.ErrUserNotFound
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
