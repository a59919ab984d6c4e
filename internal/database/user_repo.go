package database

import (
	"database/sql"
	"errors"
	"time"

	"clinik-backend/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")
)

// UserRepo handles user database operations
type UserRepo struct{}

// NewUserRepo creates a new user repository
func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// Create creates a new user. Uniqueness of username and email is pre-checked
// here before the insert rather than left to the storage constraint.
func (r *UserRepo) Create(user *models.User) error {
	taken, err := r.ExistsByUsername(user.Username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	taken, err = r.ExistsByEmail(user.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	result, err := DB.Exec(`
		INSERT INTO users (username, email, full_name, password_hash, role, is_active, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.Username, user.Email, user.FullName, user.PasswordHash, user.Role, user.IsActive, user.CreatedBy)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepo) GetByID(id int64) (*models.User, error) {
	return r.getOne("SELECT user_id, username, email, full_name, password_hash, role, is_active, created_at, last_login FROM users WHERE user_id = ?", id)
}

// GetActiveByUsername retrieves an active user by exact username match.
// Inactive accounts are invisible to this lookup; login against a disabled
// account fails the same way as an unknown username.
func (r *UserRepo) GetActiveByUsername(username string) (*models.User, error) {
	return r.getOne("SELECT user_id, username, email, full_name, password_hash, role, is_active, created_at, last_login FROM users WHERE username = ? AND is_active = 1", username)
}

func (r *UserRepo) getOne(query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := DB.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.Role, &user.IsActive,
		&user.CreatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}

	return user, nil
}

// UpdateLastLogin updates the user's last login timestamp
func (r *UserRepo) UpdateLastLogin(id int64) error {
	_, err := DB.Exec("UPDATE users SET last_login = ? WHERE user_id = ?", time.Now(), id)
	return err
}

// Count returns the total number of users
func (r *UserRepo) Count() (int, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// ExistsByUsername checks if a user with the given username exists,
// active or not
func (r *UserRepo) ExistsByUsername(username string) (bool, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// ExistsByEmail checks if a user with the given email exists, active or not
func (r *UserRepo) ExistsByEmail(email string) (bool, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	return count > 0, err
}
