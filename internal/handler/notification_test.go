package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationJSON struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	EntryID string `json:"entryId"`
	ActorID string `json:"actorId"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

func TestNotificationHandler_Inbox(t *testing.T) {
	h := newTestAPI(t)
	p := createProgressViaAPI(t, h, "owner", "x")

	do(t, h, http.MethodPost, "/api/learning-progress/"+p.ID+"/comments", map[string]any{"userId": "u2", "content": "great"})
	do(t, h, http.MethodPost, "/api/learning-progress/"+p.ID+"/likes", map[string]any{"userId": "u2"})
	do(t, h, http.MethodPost, "/api/learning-progress/"+p.ID+"/likes", map[string]any{"userId": "u2"}) // duplicate
	do(t, h, http.MethodPost, "/api/learning-progress/"+p.ID+"/likes", map[string]any{"userId": "owner"})

	rr := do(t, h, http.MethodGet, "/api/notifications/user/owner", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	inbox := decode[[]notificationJSON](t, rr)
	require.Len(t, inbox, 2)
	assert.Equal(t, "like", inbox[0].Type)
	assert.Equal(t, "comment", inbox[1].Type)
	assert.Equal(t, "great", inbox[1].Message)
	assert.Equal(t, "u2", inbox[1].ActorID)
	assert.Equal(t, p.ID, inbox[1].EntryID)

	rr = do(t, h, http.MethodGet, "/api/notifications/user/owner?limit=1", nil)
	assert.Len(t, decode[[]notificationJSON](t, rr), 1)

	rr = do(t, h, http.MethodGet, "/api/notifications/user/owner?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notifications/user/owner/unread-count", nil)
	assert.JSONEq(t, `{"count":2}`, rr.Body.String())

	rr = do(t, h, http.MethodPatch, "/api/notifications/"+inbox[0].ID+"/read/user/u2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "another user's notification")

	rr = do(t, h, http.MethodPatch, "/api/notifications/"+inbox[0].ID+"/read/user/owner", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notifications/user/owner/unread-count", nil)
	assert.JSONEq(t, `{"count":1}`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/notifications/user/owner/read-all", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/notifications/user/owner/unread-count", nil)
	assert.JSONEq(t, `{"count":0}`, rr.Body.String())
}
