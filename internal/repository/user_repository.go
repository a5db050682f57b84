package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/yourorg/roomreserve/internal/domain"
)

const pqUniqueViolation = "23505"

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *sql.DB, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user. The email is stored case-folded; a duplicate
// fails with domain.ErrConflict.
func (r *PostgresUserRepository) Create(user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		user.ID,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.FullName,
		string(user.Role),
		user.IsActive,
	).Scan(&user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("user with email %s: %w", user.Email, domain.ErrConflict)
		}
		r.logger.Error("failed to create user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(id string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by case-folded email
func (r *PostgresUserRepository) GetByEmail(email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRow(query, strings.ToLower(email)))
}

func (r *PostgresUserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var role string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&role,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Role = domain.Role(role)
	return user, nil
}

// Update updates an existing user (full name, role, active flag, password)
func (r *PostgresUserRepository) Update(user *domain.User) error {
	query := `
		UPDATE users
		SET full_name = $1, role = $2, is_active = $3, password_hash = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(
		query,
		user.FullName,
		string(user.Role),
		user.IsActive,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes a user. Bookings keep their denormalized guest
// snapshot, so no cascade is needed.
func (r *PostgresUserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns users newest-first with pagination and an optional
// case-insensitive filter over email and full name.
func (r *PostgresUserRepository) List(opts domain.UserListOptions) ([]*domain.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE ($1 = '' OR email ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(query, opts.Query, opts.Skip, limit)
	if err != nil {
		r.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		var role string
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FullName,
			&role,
			&user.IsActive,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = domain.Role(role)
		users = append(users, user)
	}

	return users, rows.Err()
}

// Stats returns aggregate user counts for the admin dashboard.
func (r *PostgresUserRepository) Stats() (*domain.UserStats, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE is_active),
			count(*) FILTER (WHERE role = 'admin')
		FROM users
	`

	stats := &domain.UserStats{}
	err := r.db.QueryRow(query).Scan(&stats.Total, &stats.Active, &stats.Admins)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	return stats, nil
}

// CountCreatedSince counts users registered at or after the given time.
func (r *PostgresUserRepository) CountCreatedSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT count(*) FROM users WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
