// Package mcp exposes the desk sections as MCP tools.
package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/transport"
)

// Config contains server configuration.
type Config struct {
	// Desk must be built with adapter.ContextConfirmer; the confirm tool
	// argument is passed through the context.
	Desk *desk.Desk
	// Resolver authenticates HTTP callers. Nil disables auth.
	Resolver      transport.UserResolver
	DefaultUser   string
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "scriptdesk",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio is local only and never authenticates.
	var resolver transport.UserResolver
	if cfg.TransportMode == "http" {
		resolver = cfg.Resolver
	}
	server.AddReceivingMiddleware(identityMiddleware(resolver, cfg.DefaultUser), auditMiddleware(logger))

	registerTools(server, &tools{desk: cfg.Desk, logger: logger})

	return server
}
