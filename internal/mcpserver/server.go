// Package mcpserver exposes the query pipeline as Model Context Protocol
// tools so agent runtimes can search and index without going through HTTP.
package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anvesht/ragline/internal/rag"
)

const Version = "1.0.0"

type Server struct {
	ragService rag.Service
	server     *mcp.Server
}

func NewServer(ragService rag.Service) (*Server, error) {
	if ragService == nil {
		return nil, errors.New("mcpserver: nil rag service")
	}

	impl := &mcp.Implementation{
		Name:    "ragline",
		Version: Version,
	}

	s := &Server{
		ragService: ragService,
		server:     mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves the tools over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
