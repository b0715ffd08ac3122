package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/i474232898/weather-team/internal/weather"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server exposes the weather tools to MCP clients.
type Server struct {
	service *weather.Service
	server  *mcp.Server
}

// New creates a new MCP server backed by service.
func New(service *weather.Service) (*Server, error) {
	if service == nil {
		return nil, errors.New("mcpserver: service is required")
	}

	impl := &mcp.Implementation{
		Name:    "weather-team",
		Version: Version,
	}

	s := &Server{
		service: service,
		server:  mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}
