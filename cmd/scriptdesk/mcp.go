package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/scriptdesk/internal/mcp"
	"github.com/rpggio/scriptdesk/internal/metrics"
	"github.com/rpggio/scriptdesk/internal/transport"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tool surface",
	Long: `Serve the sections as MCP tools over stdio or streamable HTTP, as
selected by the transport mode (SCRIPTDESK_TRANSPORT).`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	recorder := metrics.New()
	d := newDesk(recorder)
	defer d.Unmount()

	if err := d.Load(ctx); err != nil {
		logger.Warn("initial load incomplete; tools report NOT_READY until reload", "error", err)
	}

	mcpCfg := mcp.Config{
		Desk:          d,
		DefaultUser:   "mcp",
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	}
	if cfg.Server.Token != "" {
		mcpCfg.Resolver = transport.StaticToken{Token: cfg.Server.Token, User: "mcp"}
	}
	server := mcp.NewServer(mcpCfg)

	if cfg.Transport.Mode == "stdio" {
		logger.Info("starting stdio transport", "auth", "disabled")
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}

	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/mcp", handler)
	router.Handle("/mcp/*", handler)
	router.Handle("/metrics", recorder.Handler())
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return serve(ctx, logger, &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	})
}
