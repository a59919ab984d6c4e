package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"clinik-backend/internal/auth"
	"clinik-backend/internal/database"
	"clinik-backend/internal/models"
)

// envelope mirrors the JSON response shape for assertions
type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// setupTestServer builds the full route tree over a fresh temp database and
// seeds one admin and one staff account.
func setupTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clinik_api_test.db")
	require.NoError(t, database.Open(database.Config{Path: path}))
	t.Cleanup(func() {
		database.Close()
	})

	svc := auth.NewService(database.NewSessionRepo(), auth.Config{
		SessionTTL: 24 * time.Hour,
		BcryptCost: 4,
	})

	seedUser(t, svc, "admin", models.RoleAdmin)
	seedUser(t, svc, "staff", models.RoleStaff)

	e := echo.New()
	RegisterRoutes(e.Group("/api"), svc, zerolog.Nop())
	return e
}

func seedUser(t *testing.T, svc *auth.Service, username string, role models.Role) {
	t.Helper()

	_, err := svc.Register(&models.RegisterRequest{
		Username: username,
		Password: "pass1234",
		Email:    username + "@clinik.local",
		FullName: "Seed " + username,
		Role:     role,
	}, 0)
	require.NoError(t, err)
}

// perform runs one request through the router. A nil cookie sends the
// request unauthenticated.
func perform(e *echo.Echo, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// loginAs logs a seeded user in and returns the session cookie
func loginAs(t *testing.T, e *echo.Echo, username string) *http.Cookie {
	t.Helper()

	rec := perform(e, http.MethodPost, "/api/auth/login",
		`{"username":"`+username+`","password":"pass1234"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// createPatientViaAPI registers a minimal patient and returns its id
func createPatientViaAPI(t *testing.T, e *echo.Echo, cookie *http.Cookie) int64 {
	t.Helper()

	rec := perform(e, http.MethodPost, "/api/patients",
		`{"first_name":"Maria","last_name":"Lopez","date_of_birth":"1991-07-07","gender":"Female"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	id, ok := env.Data["patient_id"].(float64)
	require.True(t, ok)
	return int64(id)
}
