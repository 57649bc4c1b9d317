// File: /repositories/user_repository_test.go
package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIdentifier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	byUsername, err := repo.ResolveIdentifier("alice")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	assert.Equal(t, "user-a", byUsername.ID)

	byEmail, err := repo.ResolveIdentifier("bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "user-b", byEmail.ID)

	missing, err := repo.ResolveIdentifier("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestResolveID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.ResolveID("user-c")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "carol", user.Username)

	missing, err := repo.ResolveID("user-z")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
