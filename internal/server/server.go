// Package server assembles the HTTP surface of the plugin host: the token
// exchange endpoints, the catalog API and pages, the MCP agent gateway and
// the health probe.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	authhandlers "github.com/kingasieminiak/backstage/internal/auth/handlers"
	"github.com/kingasieminiak/backstage/internal/catalog"
	"github.com/kingasieminiak/backstage/internal/config"
	"github.com/kingasieminiak/backstage/internal/httputil"
	"github.com/kingasieminiak/backstage/internal/mcpserver"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server is the HTTP host. It owns the mux and the http.Server and ties
// their lifetime to the fx lifecycle.
type Server struct {
	config *config.ServerConfig
	server *http.Server
	logger *zap.Logger
}

// Params collects the constructor dependencies.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.ServerConfig
	Auth      *authhandlers.Handler
	Catalog   *catalog.Handler
	MCP       *mcpserver.Server
	Logger    *zap.Logger
}

// NewServer builds the mux, wires the middleware and registers the start and
// stop hooks.
func NewServer(p Params) *Server {
	mux := http.NewServeMux()
	p.Auth.RegisterRoutes(mux)
	p.Catalog.RegisterRoutes(mux)
	mux.Handle("/api/mcp", p.MCP.Handler())

	s := &Server{
		config: p.Config,
		logger: p.Logger,
	}
	mux.HandleFunc("/healthz", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", p.Config.Host, p.Config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: RequestLogger(p.Logger)(mux),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})
	return s
}

// start binds the listener synchronously so a busy port fails startup, then
// serves in the background.
func (s *Server) start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("server listening",
		zap.String("address", s.server.Addr),
		zap.String("title", s.config.Title),
	)

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) stop(ctx context.Context) error {
	s.logger.Info("shutting down server", zap.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteMethodNotAllowed(w, http.MethodGet)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.Title,
		"version": config.Version(),
	})
}

// Module provides the HTTP host dependencies
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
	),
)
