package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/api/middleware"
	"loan-portal/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const owner = "0712345678"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newRouter mounts routes behind the auth middleware with token auth
// disabled, so the owner comes from the owner header.
func newRouter(routes func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.AuthMiddleware(config.AuthConfig{Enabled: false}, logger))
	routes(r)
	return r
}

func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OwnerHeader, owner)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorDetail {
	t.Helper()
	return decodeBody[dto.ErrorResponse](t, rec).Error
}
