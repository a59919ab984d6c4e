package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"clinik-backend/internal/auth"
	"clinik-backend/internal/database"
	"clinik-backend/internal/models"
)

// loginHandler handles POST /api/auth/login
func loginHandler(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}

	if missing := missingFields(
		requiredField{"username", req.Username},
		requiredField{"password", req.Password},
	); len(missing) > 0 {
		return respondMissing(c, missing)
	}

	username := strings.TrimSpace(req.Username)

	// Any session the client already holds is rotated away on login
	result, err := authService.Login(username, req.Password, auth.TokenFromRequest(c))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.Warn().Str("username", username).Msg("failed login attempt")
			return respondErr(c, http.StatusUnauthorized, "Invalid username or password")
		}
		logger.Error().Err(err).Str("username", username).Msg("login error")
		return respondErr(c, http.StatusInternalServerError, "Login failed due to server error")
	}

	setSessionCookie(c, result.Token, result.Session)

	logger.Info().Str("username", username).Msg("successful login")

	return respondOK(c, http.StatusOK, "Login successful", map[string]interface{}{
		"user": map[string]interface{}{
			"user_id":   result.User.ID,
			"username":  result.User.Username,
			"email":     result.User.Email,
			"full_name": result.User.FullName,
			"role":      result.User.Role,
		},
	})
}

// logoutHandler handles POST /api/auth/logout. Destroying a session that is
// already gone is a no-op, so calling logout twice is safe.
func logoutHandler(c echo.Context) error {
	token := auth.TokenFromRequest(c)
	if token != "" {
		if session, err := authService.CheckAuth(token); err == nil {
			logger.Info().Str("username", session.Username).Msg("user logged out")
		}
		if err := authService.Logout(token); err != nil {
			logger.Error().Err(err).Msg("logout error")
		}
	}

	clearSessionCookie(c)

	return respondOK(c, http.StatusOK, "Logout successful", nil)
}

// registerHandler handles POST /api/auth/register
func registerHandler(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}

	if missing := missingFields(
		requiredField{"username", req.Username},
		requiredField{"password", req.Password},
		requiredField{"email", req.Email},
		requiredField{"full_name", req.FullName},
	); len(missing) > 0 {
		return respondMissing(c, missing)
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if !validEmail(req.Email) {
		return respondErr(c, http.StatusBadRequest, "Invalid email address")
	}
	if !usernamePattern.MatchString(req.Username) {
		return respondErr(c, http.StatusBadRequest, "Username must contain only letters, numbers and underscores")
	}
	if len(req.Password) < 4 {
		return respondErr(c, http.StatusBadRequest, "Password must be at least 4 characters")
	}

	user, err := authService.Register(&req, 0)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrUsernameTaken):
			return respondErr(c, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, database.ErrEmailTaken):
			return respondErr(c, http.StatusBadRequest, "Email already registered")
		}
		logger.Error().Err(err).Str("username", req.Username).Msg("registration error")
		return respondErr(c, http.StatusInternalServerError, "Registration failed due to server error")
	}

	logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("new user registered")

	return respondOK(c, http.StatusCreated, "Account created successfully", map[string]interface{}{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

// checkSessionHandler handles GET /api/auth/session
func checkSessionHandler(c echo.Context) error {
	session := auth.SessionFromContext(c)

	return respondOK(c, http.StatusOK, "Session valid", map[string]interface{}{
		"user": map[string]interface{}{
			"user_id":   session.UserID,
			"username":  session.Username,
			"role":      session.Role,
			"full_name": session.FullName,
		},
	})
}

// setSessionCookie attaches the session token cookie: path /, HTTP-only,
// same-site strict, secure over TLS, lifetime matching the session TTL.
func setSessionCookie(c echo.Context, token string, session *models.Session) {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(session.ExpiresAt.Sub(session.LoginTime).Seconds()),
	}
	c.SetCookie(cookie)
}

func clearSessionCookie(c echo.Context) {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)
}
