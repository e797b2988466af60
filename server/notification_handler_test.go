package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/opsconsole/models"
)

func createNotification(t *testing.T, env *testEnv, token, userKey, message, notificationType string) models.Notification {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/v1/notifications", token, gin.H{
		"user_id": userKey,
		"message": message,
		"type":    notificationType,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Notification
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	return created
}

func listNotifications(t *testing.T, env *testEnv, token, query string) []models.Notification {
	t.Helper()
	w := env.do(t, http.MethodGet, "/api/v1/notifications"+query, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var notifications []models.Notification
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &notifications))
	return notifications
}

func TestCreateAndListNotifications(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)

	created := createNotification(t, env, alice.Token, alice.UserKey, "Build failed", "error")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, alice.UserKey, created.UserID)
	assert.False(t, created.Read)

	notifications := listNotifications(t, env, alice.Token, "")
	require.Len(t, notifications, 1)
	assert.Equal(t, created.ID, notifications[0].ID)
	assert.Equal(t, "Build failed", notifications[0].Message)
}

func TestCreateNotification_EmptyMessageRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/notifications", alice.Token, gin.H{
		"user_id": alice.UserKey,
		"message": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListNotifications_OnlyShowsOwn(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)
	bob := env.signupAndLogin(t, "bob", false)

	createNotification(t, env, alice.Token, alice.UserKey, "for alice", "info")

	assert.Len(t, listNotifications(t, env, alice.Token, ""), 1)
	assert.Empty(t, listNotifications(t, env, bob.Token, ""))
}

func TestMarkNotificationRead_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)

	first := createNotification(t, env, alice.Token, alice.UserKey, "first", "info")
	createNotification(t, env, alice.Token, alice.UserKey, "second", "info")

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%s/read", first.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result models.MarkReadResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.True(t, result.Success)

	// idempotent
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%s/read", first.ID), alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	unread := listNotifications(t, env, alice.Token, "?unread=true")
	require.Len(t, unread, 1)
	assert.Equal(t, "second", unread[0].Message)
}

func TestMarkNotificationRead_UnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)

	w := env.do(t, http.MethodPut, "/api/v1/notifications/no-such-id/read", alice.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var result models.MarkReadResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.False(t, result.Success)
}

func TestMarkNotificationRead_OtherUsersNotificationIs404(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)
	bob := env.signupAndLogin(t, "bob", false)

	created := createNotification(t, env, alice.Token, alice.UserKey, "private", "info")

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%s/read", created.ID), bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// alice's notification stayed unread
	unread := listNotifications(t, env, alice.Token, "?unread=true")
	assert.Len(t, unread, 1)
}

func TestBroadcastNotification_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice", false)
	admin := env.signupAndLogin(t, "root", true)

	w := env.do(t, http.MethodPost, "/api/v1/notifications/broadcast", alice.Token, gin.H{
		"message": "maintenance at noon",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/notifications/broadcast", admin.Token, gin.H{
		"message": "maintenance at noon",
		"type":    "warning",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// broadcasts are push-only and never persisted
	assert.Empty(t, listNotifications(t, env, admin.Token, ""))
}
