package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/reacttypes/pkg/catalog"
	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Options configures a Server.
type Options struct {
	// Dialect is used when a call does not name one.
	Dialect string

	// Root anchors relative file paths in tool arguments.
	Root string

	// CallLog records every tool call. Nil disables it.
	CallLog *mcplog.Logger
}

// Server implements the MCP server exposing type extraction and the
// component catalog as tools.
type Server struct {
	mcpServer *server.MCPServer
	engine    *extract.Engine
	catalog   *catalog.Catalog // may be nil when serving without a catalog
	opts      Options
	logger    *mcplog.Logger
}

// NewServer creates a new MCP server over engine and an optional catalog.
func NewServer(engine *extract.Engine, cat *catalog.Catalog, opts Options) *Server {
	if opts.Dialect == "" {
		opts.Dialect = "typescript"
	}
	s := &Server{engine: engine, catalog: cat, opts: opts, logger: opts.CallLog}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.logger != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("reacttypes", serverVersion, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: extractTypesTool(), Handler: s.handleExtractTypes},
		server.ServerTool{Tool: getComponentTypesTool(), Handler: s.handleGetComponentTypes},
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: queryCatalogTool(), Handler: s.handleQueryCatalog},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
