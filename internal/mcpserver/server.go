// Package mcpserver exposes the router as MCP tools so agent-driven chat
// channels can drive registrations and payments.
package mcpserver

import (
	"context"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/arcagent/arcagent/internal/core"
)

const (
	serverName    = "arcagent"
	serverVersion = "1.0.0"
)

// Server is a streamable HTTP MCP endpoint.
type Server struct {
	mcp    *server.MCPServer
	http   *server.StreamableHTTPServer
	tools  []server.ServerTool
	logger zerolog.Logger
}

// New builds the MCP server. A nil cfg uses the embedded configuration.
func New(svcs *core.Services, cfg *Config, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		var err error
		if cfg, err = DefaultConfig(); err != nil {
			return nil, err
		}
	}

	t := &tools{svcs: svcs}
	toolset := t.build(cfg)

	mcpSrv := server.NewMCPServer(serverName, serverVersion,
		server.WithInstructions(cfg.Instructions),
		server.WithToolCapabilities(false),
	)
	mcpSrv.AddTools(toolset...)

	logger.Info().Int("tools", len(toolset)).Msg("mounted MCP tools")

	return &Server{
		mcp:    mcpSrv,
		http:   server.NewStreamableHTTPServer(mcpSrv, server.WithEndpointPath("/")),
		tools:  toolset,
		logger: logger,
	}, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.http.ServeHTTP(w, r)
}

// ServeStdio speaks MCP over the given streams until ctx is done or in
// reaches EOF.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
