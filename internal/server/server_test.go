package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/learnhub/internal/auth"
	"github.com/sakif/learnhub/internal/config"
	sqliteRepo "github.com/sakif/learnhub/internal/repository/sqlite"
	"github.com/sakif/learnhub/internal/server"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() config.Config {
	return config.Config{
		Port:            8080,
		DBPath:          ":memory:",
		StoreDriver:     config.DriverSQLite,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "debug",
		ShutdownTimeout: time.Second,
	}
}

func newTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	store, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := server.NewWithStore(cfg, store, logger)
	require.NoError(t, err)
	return srv.Handler()
}

func send(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := send(t, h, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := send(t, h, http.MethodGet, "/api/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"http://localhost:3000"}
	h := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Less(t, rr.Code, 300)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestEventCapacityScenario(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := send(t, h, http.MethodPost, "/api/events/user/u1", "", map[string]any{
		"title": "Study group", "date": "2030-06-01", "maxParticipants": 1,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var event struct {
		ID           string   `json:"id"`
		Participants []string `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &event))

	rr = send(t, h, http.MethodPost, "/api/events/"+event.ID+"/register/user/u2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &event))
	assert.Equal(t, []string{"u2"}, event.Participants)

	rr = send(t, h, http.MethodPost, "/api/events/"+event.ID+"/register/user/u3", "", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reason":"event_full"`)
}

func TestProjectEntryRequiresProjectName(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := send(t, h, http.MethodPost, "/api/learning-progress", "", map[string]any{
		"userId": "u1", "title": "X", "projectName": "", "templateType": "project",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"field":"projectName"`)
}

func TestRequesterGuard(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = testSecret
	h := newTestServer(t, cfg)

	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	u1, err := tokens.Generate("u1")
	require.NoError(t, err)

	body := map[string]any{"title": "Go tour", "url": "https://go.dev/tour"}

	rr := send(t, h, http.MethodPost, "/api/resources/user/u1", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = send(t, h, http.MethodPost, "/api/resources/user/u2", u1, body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = send(t, h, http.MethodPost, "/api/resources/user/u1", u1, body)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Reads stay public.
	rr = send(t, h, http.MethodGet, "/api/resources", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = send(t, h, http.MethodGet, "/api/notifications/user/u1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = send(t, h, http.MethodGet, "/api/notifications/user/u1", u1, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestNotificationFlow(t *testing.T) {
	h := newTestServer(t, testConfig())

	rr := send(t, h, http.MethodPost, "/api/learning-progress", "", map[string]any{
		"userId": "owner", "title": "Week 1", "description": "closures", "templateType": "general",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var entry struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))

	rr = send(t, h, http.MethodPost, "/api/learning-progress/"+entry.ID+"/comments", "", map[string]any{
		"userId": "u2", "userName": "Ana", "content": "nice",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = send(t, h, http.MethodGet, "/api/notifications/user/owner/unread-count", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":1}`, rr.Body.String())

	rr = send(t, h, http.MethodGet, "/api/notifications/user/u2/unread-count", "", nil)
	assert.JSONEq(t, `{"count":0}`, rr.Body.String())
}
