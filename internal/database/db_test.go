package database

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"clinik-backend/internal/models"
)

// setupTestDB opens a fresh database in a per-test temp directory and runs
// all migrations against it.
func setupTestDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clinik_test.db")
	require.NoError(t, Open(Config{Path: path}))

	t.Cleanup(func() {
		Close()
	})
}

var testUserSeq int

// createTestUser inserts a user directly; repo-level tests need a valid
// user_id for created_by foreign keys.
func createTestUser(t *testing.T, role models.Role) *models.User {
	t.Helper()

	testUserSeq++
	user := &models.User{
		Username:     fmt.Sprintf("testuser%d", testUserSeq),
		Email:        fmt.Sprintf("testuser%d@clinik.local", testUserSeq),
		FullName:     "Test User",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, NewUserRepo().Create(user))
	return user
}

// createTestPatient registers a minimal patient owned by the given user
func createTestPatient(t *testing.T, createdBy int64) *models.Patient {
	t.Helper()

	patient := &models.Patient{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1990-05-14",
		Gender:      "Female",
		CreatedBy:   createdBy,
	}
	require.NoError(t, NewPatientRepo().Create(patient, nil))
	return patient
}
