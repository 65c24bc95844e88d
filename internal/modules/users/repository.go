package users

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles user database operations.
// Database: marketplace.db (users table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

// GetActiveSellers returns all active users whose role is farmer or supplier.
func (r *Repository) GetActiveSellers() ([]User, error) {
	query := `
		SELECT id, email, name, role, is_active, created_at
		FROM users
		WHERE role IN (?, ?) AND is_active = 1
		ORDER BY created_at`

	rows, err := r.db.Query(query, RoleFarmer, RoleSupplier)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sellers: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetByID returns a single user, or nil if not found.
func (r *Repository) GetByID(id string) (*User, error) {
	query := `
		SELECT id, email, name, role, is_active, created_at
		FROM users
		WHERE id = ?`

	var u User
	var createdAtUnix int64
	var isActive int
	err := r.db.QueryRow(query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &isActive, &createdAtUnix)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %s: %w", id, err)
	}

	u.IsActive = isActive != 0
	u.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
	return &u, nil
}

// Create inserts a new user.
func (r *Repository) Create(u User) error {
	query := `
		INSERT INTO users (id, email, name, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	isActive := 0
	if u.IsActive {
		isActive = 1
	}
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := r.db.Exec(query, u.ID, u.Email, u.Name, u.Role, isActive, createdAt.Unix()); err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
	}

	return nil
}

func scanUsers(rows *sql.Rows) ([]User, error) {
	var result []User
	for rows.Next() {
		var u User
		var createdAtUnix int64
		var isActive int

		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &isActive, &createdAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		u.IsActive = isActive != 0
		u.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return result, nil
}
