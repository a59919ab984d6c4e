package auth

import (
	"errors"
	"time"

	"clinik-backend/internal/database"
	"clinik-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("admin access required")
)

// DefaultSessionTTL is the fixed session lifetime, measured from login.
// Activity does not extend it.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore is the server-side session store keyed by the opaque token
// the client holds in its cookie. Get returns database.ErrSessionNotFound
// for an unknown token and database.ErrSessionExpired for a token whose
// session passed its deadline (destroying the session as a side effect).
type SessionStore interface {
	Create(user *models.User, ttl time.Duration) (string, *models.Session, error)
	Get(token string) (*models.Session, error)
	Delete(token string) error
}

// Config holds auth service tunables
type Config struct {
	SessionTTL time.Duration
	BcryptCost int
}

// Service gates access to every protected operation and carries the
// session's cached identity to it
type Service struct {
	users    *database.UserRepo
	sessions SessionStore
	cfg      Config
}

// NewService creates a new auth service over the given session store
func NewService(sessions SessionStore, cfg Config) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &Service{
		users:    database.NewUserRepo(),
		sessions: sessions,
		cfg:      cfg,
	}
}

// LoginResult represents a successful login
type LoginResult struct {
	Token   string
	User    *models.User
	Session *models.Session
}

// Login authenticates credentials and creates a session. A missing or
// inactive user and a wrong password both surface as ErrInvalidCredentials;
// the caller cannot tell which check failed. priorToken, when non-empty, is
// the session token the client presented with the login request: it is
// destroyed before the new session is issued, so a session started before
// authentication can never survive it.
func (s *Service) Login(username, password, priorToken string) (*LoginResult, error) {
	user, err := s.users.GetActiveByUsername(username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Rotate: invalidate any pre-login session
	if priorToken != "" {
		if err := s.sessions.Delete(priorToken); err != nil {
			return nil, err
		}
	}

	token, session, err := s.sessions.Create(user, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	s.users.UpdateLastLogin(user.ID)

	return &LoginResult{Token: token, User: user, Session: session}, nil
}

// CheckAuth resolves the session for a token and returns its cached
// identity. It never re-reads the user row, so role or name changes made
// elsewhere do not take effect until re-login. An expired session has
// already been destroyed by the store when ErrSessionExpired comes back.
func (s *Service) CheckAuth(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(token)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrSessionNotFound):
			return nil, ErrUnauthenticated
		case errors.Is(err, database.ErrSessionExpired):
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	// A session without a role falls back to staff rather than failing
	// closed; this matches existing authorization behavior.
	if session.Role == "" {
		session.Role = models.RoleStaff
	}

	return session, nil
}

// RequireAdmin is CheckAuth plus an admin role gate. A role failure does
// not destroy the session.
func (s *Service) RequireAdmin(token string) (*models.Session, error) {
	session, err := s.CheckAuth(token)
	if err != nil {
		return nil, err
	}

	if session.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	return session, nil
}

// Logout destroys the session for a token. Calling it with no token or a
// token that no longer maps to a session is a no-op, not an error.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(token)
}

// Register creates a new staff account. Role defaults to staff when the
// request leaves it empty. Username and email uniqueness are pre-checked by
// the user repository; violations surface as database.ErrUsernameTaken and
// database.ErrEmailTaken.
func (s *Service) Register(req *models.RegisterRequest, createdBy int64) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}

	hash, err := HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedBy:    createdBy,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// SessionTTL exposes the configured fixed session lifetime
func (s *Service) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}
