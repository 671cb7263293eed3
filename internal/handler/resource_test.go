package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resourceJSON struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

func TestResourceHandler_Lifecycle(t *testing.T) {
	h := newTestAPI(t)

	rr := do(t, h, http.MethodPost, "/api/resources/user/u1", map[string]any{
		"title": "Effective Go", "url": "https://go.dev/doc/effective_go",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res := decode[resourceJSON](t, rr)
	assert.Equal(t, "u1", res.UserID)

	rr = do(t, h, http.MethodGet, "/api/resources/"+res.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/resources/"+res.ID+"/user/u2", map[string]any{"title": "x", "url": "https://x"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/resources/"+res.ID+"/user/u1", map[string]any{"title": "Go Proverbs", "url": "https://go-proverbs.github.io"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Go Proverbs", decode[resourceJSON](t, rr).Title)

	rr = do(t, h, http.MethodDelete, "/api/resources/"+res.ID+"/user/u1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/resources/"+res.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResourceHandler_Validation(t *testing.T) {
	h := newTestAPI(t)

	rr := do(t, h, http.MethodPost, "/api/resources/user/u1", map[string]any{"title": "no url"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "url", decode[errorBody](t, rr).Field)

	rr = do(t, h, http.MethodPost, "/api/resources/user/u1", map[string]any{"url": "https://x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "title", decode[errorBody](t, rr).Field)
}

func TestResourceHandler_Search(t *testing.T) {
	h := newTestAPI(t)
	for _, title := range []string{"Learning Go", "Go in Action", "Rust Book"} {
		rr := do(t, h, http.MethodPost, "/api/resources/user/u1", map[string]any{"title": title, "url": "https://x"})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := do(t, h, http.MethodGet, "/api/resources/search?title="+url.QueryEscape("GO"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]resourceJSON](t, rr), 2)

	rr = do(t, h, http.MethodGet, "/api/resources/user/u1", nil)
	assert.Len(t, decode[[]resourceJSON](t, rr), 3)
}
