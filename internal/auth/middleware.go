package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"clinik-backend/internal/models"
)

// SessionCookieName is the cookie carrying the opaque session token
const SessionCookieName = "clinik_session"

// ContextKeySession is the echo context key holding the resolved session
const ContextKeySession = "session"

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RequireAuth middleware resolves the session cookie and stores the session
// in the request context. Auth failures terminate the request immediately.
func RequireAuth(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := svc.CheckAuth(TokenFromRequest(c))
			if err != nil {
				return authFailure(c, err)
			}

			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireAdmin middleware gates destructive operations on the admin role.
// Must be used after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFromContext(c)
			if session == nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
			}

			if session.Role != models.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorResponse{Message: "Admin access required"})
			}

			return next(c)
		}
	}
}

// TokenFromRequest extracts the session token from the request cookie
func TokenFromRequest(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// SessionFromContext retrieves the authenticated session from the context
func SessionFromContext(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

func authFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrSessionExpired):
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: "Session expired"})
	case errors.Is(err, ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
	case errors.Is(err, ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Message: "Admin access required"})
	}
	c.Logger().Error("auth check error: ", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Authentication check failed"})
}
