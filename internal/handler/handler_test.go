package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/learnhub/internal/handler"
	"github.com/sakif/learnhub/internal/notify"
	sqliteRepo "github.com/sakif/learnhub/internal/repository/sqlite"
	"github.com/sakif/learnhub/internal/service"
)

// newTestAPI mounts every handler on an in-memory SQLite store, the same way
// the server does but without identity verification.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := notify.NewStoreSink(db, logger)

	r := chi.NewRouter()
	r.Mount("/api/events", handler.NewEventHandler(service.NewEventService(db, logger), logger).Routes(nil))
	r.Mount("/api/resources", handler.NewResourceHandler(service.NewResourceService(db, logger), logger).Routes(nil))
	r.Mount("/api/learning-progress", handler.NewProgressHandler(service.NewProgressService(db, sink, logger), logger).Routes(nil))
	r.Mount("/api/notifications", handler.NewNotificationHandler(service.NewNotificationService(db, logger), logger).Routes(nil))
	return r
}

// do sends a request with an optional JSON body and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if buf != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals the response body into a T.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
	Field   string `json:"field"`
}
