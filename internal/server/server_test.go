package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bootcheck/internal/config"
	"bootcheck/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: "0", TemplatesGlob: "../../web/templates/*"},
		Engine: config.EngineConfig{Timeout: time.Second, Language: "English"},
		App:    config.AppConfig{MaxUploadSize: 1 << 20, AllowedFormats: []string{".jpg", ".png"}},
	}
}

func TestServerRoutes(t *testing.T) {
	engineErr := domain.ConfigurationError("missing API key: set GEMINI_API_KEY", nil)
	srv, err := New(context.Background(), testConfig(), nil, engineErr, zap.NewNop())
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New Balance")
	assert.Contains(t, rec.Body.String(), "Inner Tag")
	assert.Contains(t, rec.Body.String(), "GEMINI_API_KEY")

	rec = get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","engine":false}`, rec.Body.String())

	rec = get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bootcheck_render_failures_total")

	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/verify", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
