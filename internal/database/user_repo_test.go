package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinik-backend/internal/models"
)

func TestUserCreateAndGet(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepo()

	user := &models.User{
		Username:     "nurse_ana",
		Email:        "ana@clinik.local",
		FullName:     "Ana Cruz",
		PasswordHash: "hash",
		Role:         models.RoleStaff,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "nurse_ana", got.Username)
	assert.Equal(t, models.RoleStaff, got.Role)
	assert.True(t, got.LastLogin.IsZero())

	_, err = repo.GetByID(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUniqueness(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepo()

	first := &models.User{
		Username: "duplicate", Email: "dup@clinik.local",
		FullName: "Dup", PasswordHash: "x", Role: models.RoleStaff, IsActive: true,
	}
	require.NoError(t, repo.Create(first))

	sameName := &models.User{
		Username: "duplicate", Email: "other@clinik.local",
		FullName: "Dup2", PasswordHash: "x", Role: models.RoleStaff, IsActive: true,
	}
	assert.ErrorIs(t, repo.Create(sameName), ErrUsernameTaken)

	sameEmail := &models.User{
		Username: "different", Email: "dup@clinik.local",
		FullName: "Dup3", PasswordHash: "x", Role: models.RoleStaff, IsActive: true,
	}
	assert.ErrorIs(t, repo.Create(sameEmail), ErrEmailTaken)
}

func TestGetActiveByUsernameSkipsInactive(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepo()

	user := createTestUser(t, models.RoleStaff)

	got, err := repo.GetActiveByUsername(user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = DB.Exec("UPDATE users SET is_active = 0 WHERE user_id = ?", user.ID)
	require.NoError(t, err)

	// A disabled account looks exactly like a missing one
	_, err = repo.GetActiveByUsername(user.Username)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepo()
	user := createTestUser(t, models.RoleStaff)

	require.NoError(t, repo.UpdateLastLogin(user.ID))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.LastLogin.IsZero())
}

func TestUserCount(t *testing.T) {
	setupTestDB(t)
	repo := NewUserRepo()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	createTestUser(t, models.RoleAdmin)
	createTestUser(t, models.RoleStaff)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
