package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinik-backend/internal/models"
)

func TestSessionCreateAndGet(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.RoleAdmin)
	repo := NewSessionRepo()

	token, created, err := repo.Create(user, 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.NotEqual(t, token, created.TokenHash)

	session, err := repo.Get(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, user.Username, session.Username)
	assert.Equal(t, user.Role, session.Role)
	assert.Equal(t, user.FullName, session.FullName)

	// Deadline is login time plus TTL
	assert.WithinDuration(t, session.LoginTime.Add(24*time.Hour), session.ExpiresAt, time.Second)
}

func TestSessionGetUnknownToken(t *testing.T) {
	setupTestDB(t)

	_, err := NewSessionRepo().Get("deadbeef")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiryDestroysRow(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.RoleStaff)
	repo := NewSessionRepo()

	token, session, err := repo.Create(user, 24*time.Hour)
	require.NoError(t, err)

	// Push the deadline into the past
	_, err = DB.Exec("UPDATE sessions SET expires_at = ? WHERE id = ?",
		time.Now().Add(-time.Minute), session.ID)
	require.NoError(t, err)

	_, err = repo.Get(token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The expired session was destroyed, so the token is now unknown
	_, err = repo.Get(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDeleteIdempotent(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.RoleStaff)
	repo := NewSessionRepo()

	token, _, err := repo.Create(user, time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(token))
	_, err = repo.Get(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again is a no-op
	require.NoError(t, repo.Delete(token))
}

func TestDeleteAllForUser(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.RoleStaff)
	other := createTestUser(t, models.RoleStaff)
	repo := NewSessionRepo()

	_, _, err := repo.Create(user, time.Hour)
	require.NoError(t, err)
	_, _, err = repo.Create(user, time.Hour)
	require.NoError(t, err)
	otherToken, _, err := repo.Create(other, time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAllForUser(user.ID))

	count, err := repo.CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.Get(otherToken)
	assert.NoError(t, err)
}

func TestDeleteExpired(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, models.RoleStaff)
	repo := NewSessionRepo()

	_, stale, err := repo.Create(user, time.Hour)
	require.NoError(t, err)
	liveToken, _, err := repo.Create(user, time.Hour)
	require.NoError(t, err)

	_, err = DB.Exec("UPDATE sessions SET expires_at = ? WHERE id = ?",
		time.Now().Add(-time.Minute), stale.ID)
	require.NoError(t, err)

	removed, err := repo.DeleteExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = repo.Get(liveToken)
	assert.NoError(t, err)
}
