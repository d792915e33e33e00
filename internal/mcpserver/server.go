// Package mcpserver exposes the software catalog to MCP agents over
// streamable HTTP.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kingasieminiak/backstage/internal/catalog"
	"github.com/kingasieminiak/backstage/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Server wraps an MCP server whose tools read from the catalog registry.
type Server struct {
	mcp     *mcpserver.MCPServer
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewServer creates the MCP server and registers the catalog tools.
func NewServer(cfg *config.ServerConfig, svc *catalog.Service, logger *zap.Logger) *Server {
	srv := mcpserver.NewMCPServer(cfg.Title, config.Version())

	s := &Server{
		mcp:     srv,
		catalog: svc,
		logger:  logger,
	}
	s.setupTools()
	return s
}

func (s *Server) setupTools() {
	listTool := mcp.NewTool("list_entities",
		mcp.WithDescription("List the catalog entities, optionally filtered by kind"),
		mcp.WithString("kind",
			mcp.Description("Entity kind to filter by, for example Component or API"),
		),
	)
	s.mcp.AddTool(listTool, s.handleListEntities)

	getTool := mcp.NewTool("get_entity",
		mcp.WithDescription("Get a single catalog entity by its name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The metadata.name of the entity"),
		),
	)
	s.mcp.AddTool(getTool, s.handleGetEntity)
}

func (s *Server) handleListEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, _ := request.GetArguments()["kind"].(string)

	entities := s.catalog.ListByKind(kind)
	if entities == nil {
		entities = []catalog.Entity{}
	}

	body, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entities: %w", err)
	}

	s.logger.Debug("listed entities for agent",
		zap.String("kind", kind),
		zap.Int("count", len(entities)),
	)
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleGetEntity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := request.GetArguments()["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	entity, ok := s.catalog.Get(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no entity named %q", name)), nil
	}

	body, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

// Handler returns the streamable HTTP handler the host server mounts.
func (s *Server) Handler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcp)
}

// Module provides the MCP server dependencies
var Module = fx.Module("mcp_server",
	fx.Provide(
		NewServer,
	),
)
