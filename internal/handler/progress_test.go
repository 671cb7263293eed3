package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressJSON struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	Title        string    `json:"title"`
	TemplateType string    `json:"templateType"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	Likes        []struct {
		UserID string `json:"userId"`
	} `json:"likes"`
	Comments []struct {
		ID      string `json:"id"`
		UserID  string `json:"userId"`
		Content string `json:"content"`
	} `json:"comments"`
}

func createProgressViaAPI(t *testing.T, h http.Handler, owner, title string) progressJSON {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/learning-progress/", map[string]any{
		"userId": owner, "title": title, "description": "notes", "templateType": "general",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[progressJSON](t, rr)
}

func TestProgressHandler_Create(t *testing.T) {
	h := newTestAPI(t)

	p := createProgressViaAPI(t, h, "u1", "day one")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Unknown User", p.UserName)
	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Comments)

	rr := do(t, h, http.MethodPost, "/api/learning-progress/", map[string]any{
		"userId": "u1", "title": "X", "templateType": "project",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "projectName", decode[errorBody](t, rr).Field)

	rr = do(t, h, http.MethodPost, "/api/learning-progress/", map[string]any{
		"userId": "u1", "title": "X", "tutorialName": "Tour of Go", "templateType": "tutorial",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/learning-progress/", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProgressHandler_ListNewestFirst(t *testing.T) {
	h := newTestAPI(t)
	for _, title := range []string{"A", "B", "C"} {
		createProgressViaAPI(t, h, "u1", title)
	}

	rr := do(t, h, http.MethodGet, "/api/learning-progress/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[[]progressJSON](t, rr)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{got[0].Title, got[1].Title, got[2].Title})
}

func TestProgressHandler_UpdateAndDelete(t *testing.T) {
	h := newTestAPI(t)
	p := createProgressViaAPI(t, h, "u1", "draft")
	base := "/api/learning-progress/" + p.ID

	rr := do(t, h, http.MethodPut, base, map[string]any{"title": "public edit", "status": "in progress"})
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[progressJSON](t, rr)
	assert.Equal(t, "public edit", got.Title)
	assert.Equal(t, "general", got.TemplateType)

	rr = do(t, h, http.MethodPut, base+"?userId=u2", map[string]any{"title": "nope"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, h, http.MethodPut, base, map[string]any{"title": "x", "templateType": "diary"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/learning-progress/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodDelete, base+"?userId=u2", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProgressHandler_Comments(t *testing.T) {
	h := newTestAPI(t)
	p := createProgressViaAPI(t, h, "owner", "x")
	base := "/api/learning-progress/" + p.ID + "/comments"

	rr := do(t, h, http.MethodPost, base, map[string]any{"userId": "u2", "content": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "content", decode[errorBody](t, rr).Field)

	rr = do(t, h, http.MethodPost, base, map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, base, map[string]any{"userId": "u2", "content": "typo"})
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[progressJSON](t, rr)
	require.Len(t, got.Comments, 1)
	commentID := got.Comments[0].ID

	rr = do(t, h, http.MethodPut, base+"/"+commentID, map[string]any{"content": "fixed"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "fixed", decode[progressJSON](t, rr).Comments[0].Content)

	rr = do(t, h, http.MethodDelete, base+"/"+commentID+"/user/stranger", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[progressJSON](t, rr).Comments, 1)

	rr = do(t, h, http.MethodDelete, base+"/"+commentID+"/user/owner", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[progressJSON](t, rr).Comments)

	rr = do(t, h, http.MethodPost, "/api/learning-progress/missing/comments", map[string]any{"userId": "u2", "content": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProgressHandler_Likes(t *testing.T) {
	h := newTestAPI(t)
	p := createProgressViaAPI(t, h, "owner", "x")
	base := "/api/learning-progress/" + p.ID + "/likes"

	for range 2 {
		rr := do(t, h, http.MethodPost, base, map[string]any{"userId": "u2"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[progressJSON](t, rr).Likes, 1)
	}

	rr := do(t, h, http.MethodPost, base, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodDelete, base+"/user/u2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[progressJSON](t, rr).Likes)

	rr = do(t, h, http.MethodDelete, "/api/learning-progress/missing/likes/user/u2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
