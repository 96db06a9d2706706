package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserModel_Create(t *testing.T) {
	m := &UserModel{DB: newTestDB(t)}

	user, err := m.Create("admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "admin", user.Username)
	// Salted one-way hash, never the plaintext
	assert.NotContains(t, user.PasswordHash, "s3cret")
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))
}

func TestUserModel_Create_Duplicate(t *testing.T) {
	m := &UserModel{DB: newTestDB(t)}

	_, err := m.Create("admin", "one")
	require.NoError(t, err)

	_, err = m.Create("admin", "two")
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUserModel_GetByUsername(t *testing.T) {
	m := &UserModel{DB: newTestDB(t)}

	created, err := m.Create("admin", "s3cret")
	require.NoError(t, err)

	got, err := m.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = m.GetByUsername("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserModel_CheckPassword(t *testing.T) {
	m := &UserModel{DB: newTestDB(t)}

	user, err := m.Create("admin", "s3cret")
	require.NoError(t, err)

	assert.True(t, m.CheckPassword(user, "s3cret"))
	assert.False(t, m.CheckPassword(user, "wrong"))
	assert.False(t, m.CheckPassword(user, ""))
}

func TestUserModel_Count(t *testing.T) {
	m := &UserModel{DB: newTestDB(t)}

	count, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = m.Create("admin", "s3cret")
	require.NoError(t, err)

	count, err = m.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
