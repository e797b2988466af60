package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/opsconsole/models"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, repo AuthRepository, email, userKey string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(&models.User{
		Fullname:       "Test User",
		Username:       email,
		Email:          email,
		HashedPassword: "hashed",
		UserKey:        userKey,
		IsEmailActive:  true,
	})
	require.NoError(t, err)
	return user
}

func TestAuthRepo_CreateAndFindUser(t *testing.T) {
	repo := NewAuthRepo(setupTestDB(t))
	created := seedUser(t, repo, "alice@example.com", "key-alice")

	byEmail, err := repo.FindUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byKey, err := repo.FindUserByUserKey("key-alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)

	byID, err := repo.FindUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = repo.FindUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthRepo_IsEmailExist(t *testing.T) {
	repo := NewAuthRepo(setupTestDB(t))
	seedUser(t, repo, "alice@example.com", "key-alice")

	assert.Error(t, repo.IsEmailExist("alice@example.com"))
	assert.NoError(t, repo.IsEmailExist("new@example.com"))
}

func TestAuthRepo_BlockedUserIsInactive(t *testing.T) {
	repo := NewAuthRepo(setupTestDB(t))
	user := seedUser(t, repo, "alice@example.com", "key-alice")

	user.IsBlocked = true
	require.NoError(t, repo.UpdateUser(user))

	_, err := repo.FindUserByID(user.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}

func TestAuthRepo_UpdatePasswordClearsResetToken(t *testing.T) {
	repo := NewAuthRepo(setupTestDB(t))
	user := seedUser(t, repo, "alice@example.com", "key-alice")

	user.ResetToken = "reset-123"
	require.NoError(t, repo.UpdateUser(user))

	found, err := repo.FindUserByResetToken("reset-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.UpdatePassword("new-hash", "alice@example.com"))

	_, err = repo.FindUserByResetToken("reset-123")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	updated, err := repo.FindUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.HashedPassword)

	assert.ErrorIs(t, repo.UpdatePassword("x", "nobody@example.com"), gorm.ErrRecordNotFound)
}

func TestAuthRepo_TokenBlacklist(t *testing.T) {
	repo := NewAuthRepo(setupTestDB(t))

	assert.False(t, repo.IsTokenInBlacklist("token-1"))
	require.NoError(t, repo.AddToBlackList(&models.Blacklist{Email: "alice@example.com", Token: "  token-1  "}))
	// lookups trim the same way inserts do
	assert.True(t, repo.IsTokenInBlacklist("token-1"))
	assert.False(t, repo.IsTokenInBlacklist("token-2"))
}

func TestAuthRepo_APIKeyLifecycle(t *testing.T) {
	repo := NewAuthRepo(setupTestDB(t))
	user := seedUser(t, repo, "alice@example.com", "key-alice")

	key := &models.APIKey{UserID: user.ID, Label: "ci", Prefix: "opx_abcd", Digest: "digest-1"}
	require.NoError(t, repo.CreateAPIKey(key))
	require.NotZero(t, key.ID)

	found, err := repo.FindAPIKeyByDigest("digest-1")
	require.NoError(t, err)
	assert.Equal(t, key.ID, found.ID)

	keys, err := repo.ListAPIKeysByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	require.NoError(t, repo.TouchAPIKey(key.ID))
	touched, err := repo.FindAPIKeyByDigest("digest-1")
	require.NoError(t, err)
	assert.NotNil(t, touched.LastUsedAt)

	// revoking someone else's key does nothing
	ok, err := repo.RevokeAPIKey(user.ID+1, key.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.RevokeAPIKey(user.ID, key.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// revoked keys no longer resolve
	_, err = repo.FindAPIKeyByDigest("digest-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
