package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kingasieminiak/backstage/internal/auth"
	authhandlers "github.com/kingasieminiak/backstage/internal/auth/handlers"
	"github.com/kingasieminiak/backstage/internal/auth/providers"
	"github.com/kingasieminiak/backstage/internal/catalog"
	"github.com/kingasieminiak/backstage/internal/config"
	"github.com/kingasieminiak/backstage/internal/mcpserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

const testManifest = `kind: Component
metadata:
  name: website
spec:
  owner: team-a
---
kind: Group
metadata:
  name: team-a
`

func newTestServer(t *testing.T) (*Server, *fxtest.Lifecycle) {
	t.Helper()

	manifest := filepath.Join(t.TempDir(), "catalog-info.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o644))

	logger := zap.NewNop()

	catalogSvc, err := catalog.NewService(&config.CatalogConfig{File: manifest}, logger)
	require.NoError(t, err)

	serverCfg := &config.ServerConfig{
		Host:  "127.0.0.1",
		Port:  0,
		Title: "Backstage",
	}
	// The auth endpoints under test never reach the upstream.
	authCfg := &config.AuthConfig{
		TokenURL:    "http://127.0.0.1:1/token",
		UserInfoURL: "http://127.0.0.1:1/userinfo",
		SigningKey:  "test-signing-key",
		DevToken:    "test-dev-token",
	}

	provider := providers.NewUpstreamProvider(authCfg, logger)
	minter := auth.NewMinter(authCfg, provider, logger)
	exchanger := auth.NewExchanger(authCfg, provider, minter, logger)

	lc := fxtest.NewLifecycle(t)
	srv := NewServer(Params{
		Lifecycle: lc,
		Config:    serverCfg,
		Auth:      authhandlers.NewHandler(exchanger, logger),
		Catalog:   catalog.NewHandler(serverCfg, catalogSvc, logger),
		MCP:       mcpserver.NewServer(serverCfg, catalogSvc, logger),
		Logger:    logger,
	})
	return srv, lc
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Backstage", body["service"])
}

func TestServer_HealthMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestServer_RoutesTokenEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_request")
}

func TestServer_RoutesCatalog(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/entities", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var entities []catalog.Entity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entities))
	assert.Len(t, entities, 2)
}

func TestServer_RoutesIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Backstage</title>")
}

func TestServer_StartStop(t *testing.T) {
	_, lc := newTestServer(t)

	lc.RequireStart()
	lc.RequireStop()
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)

	requestID := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, requestID)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rw.statusCode)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
