package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kingasieminiak/backstage/internal/catalog"
	"github.com/kingasieminiak/backstage/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testManifest = `kind: Component
metadata:
  name: website
spec:
  owner: team-a
---
kind: API
metadata:
  name: orders-api
spec:
  type: grpc
  owner: team-a
---
kind: Group
metadata:
  name: team-a
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog-info.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0o644))

	svc, err := catalog.NewService(&config.CatalogConfig{File: path}, zap.NewNop())
	require.NoError(t, err)

	return NewServer(&config.ServerConfig{Title: "Backstage"}, svc, zap.NewNop())
}

func newCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected tool result content")
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandleListEntities(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListEntities(context.Background(), newCallToolRequest("list_entities", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var entities []catalog.Entity
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &entities))
	require.Len(t, entities, 3)
	assert.Equal(t, "website", entities[0].Metadata.Name)
}

func TestHandleListEntities_KindFilter(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListEntities(context.Background(), newCallToolRequest("list_entities", map[string]interface{}{
		"kind": "API",
	}))
	require.NoError(t, err)

	var entities []catalog.Entity
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &entities))
	require.Len(t, entities, 1)
	assert.Equal(t, "orders-api", entities[0].Metadata.Name)
}

func TestHandleListEntities_UnknownKind(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListEntities(context.Background(), newCallToolRequest("list_entities", map[string]interface{}{
		"kind": "Nope",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", resultText(t, result))
}

func TestHandleGetEntity(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetEntity(context.Background(), newCallToolRequest("get_entity", map[string]interface{}{
		"name": "orders-api",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var entity catalog.Entity
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &entity))
	assert.Equal(t, "API", entity.Kind)
	assert.Equal(t, "team-a", entity.Spec.Owner)
}

func TestHandleGetEntity_Unknown(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetEntity(context.Background(), newCallToolRequest("get_entity", map[string]interface{}{
		"name": "missing",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "missing")
}

func TestHandleGetEntity_MissingName(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetEntity(context.Background(), newCallToolRequest("get_entity", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "name is required")
}

func TestHandler(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.Handler())
}
