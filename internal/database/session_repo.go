package database

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"clinik-backend/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionRepo stores sessions in SQLite keyed by a sha256 hash of the opaque
// token; the plain token is only ever held by the client. It satisfies the
// auth package's SessionStore interface.
type SessionRepo struct{}

// NewSessionRepo creates a new session repository
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{}
}

// Create issues a new session for the given user and returns the plain
// token. The expiry deadline is fixed at login_time + ttl and is never
// extended afterwards.
func (r *SessionRepo) Create(user *models.User, ttl time.Duration) (string, *models.Session, error) {
	// Generate random token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	now := time.Now()
	session := &models.Session{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		Username:  user.Username,
		Role:      user.Role,
		FullName:  user.FullName,
		LoginTime: now,
		ExpiresAt: now.Add(ttl),
	}

	result, err := DB.Exec(`
		INSERT INTO sessions (user_id, token_hash, username, role, full_name, login_time, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.UserID, session.TokenHash, session.Username, session.Role, session.FullName, session.LoginTime, session.ExpiresAt)
	if err != nil {
		return "", nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", nil, err
	}
	session.ID = id

	return token, session, nil
}

// Get retrieves a session by its plain token. An expired session is deleted
// before ErrSessionExpired is returned, so a second lookup with the same
// token reports the session as gone rather than expired.
func (r *SessionRepo) Get(token string) (*models.Session, error) {
	session := &models.Session{}

	err := DB.QueryRow(`
		SELECT id, user_id, token_hash, username, role, full_name, login_time, expires_at
		FROM sessions WHERE token_hash = ?
	`, hashToken(token)).Scan(
		&session.ID, &session.UserID, &session.TokenHash,
		&session.Username, &session.Role, &session.FullName,
		&session.LoginTime, &session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now()) {
		r.deleteByID(session.ID)
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Delete destroys a session by its plain token. Deleting a token with no
// session is not an error.
func (r *SessionRepo) Delete(token string) error {
	_, err := DB.Exec("DELETE FROM sessions WHERE token_hash = ?", hashToken(token))
	return err
}

// DeleteAllForUser destroys all sessions for a user
func (r *SessionRepo) DeleteAllForUser(userID int64) error {
	_, err := DB.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// DeleteExpired removes all expired sessions
func (r *SessionRepo) DeleteExpired() (int64, error) {
	result, err := DB.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountByUserID returns the number of live sessions for a user. Multiple
// concurrent sessions per user are allowed; this exists for reporting only.
func (r *SessionRepo) CountByUserID(userID int64) (int, error) {
	var count int
	err := DB.QueryRow(
		"SELECT COUNT(*) FROM sessions WHERE user_id = ? AND expires_at > ?",
		userID, time.Now(),
	).Scan(&count)
	return count, err
}

func (r *SessionRepo) deleteByID(id int64) error {
	_, err := DB.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// hashToken creates a SHA-256 hash of the token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
