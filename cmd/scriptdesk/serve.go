package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/console"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/metrics"
	"github.com/rpggio/scriptdesk/internal/rest"
	"github.com/rpggio/scriptdesk/internal/transport"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the console",
	Long: `Serve the console pages over HTTP. Every section starts loading in the
background; pages of a section answer 503 until its load completes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	recorder := metrics.New()
	d := newDesk(recorder)

	loadCtx, cancelLoad := context.WithCancel(ctx)
	defer cancelLoad()
	go func() {
		if err := d.Load(loadCtx); err != nil {
			logger.Warn("initial load incomplete", "error", err)
			return
		}
		logger.Info("sections loaded")
	}()

	opts := console.Options{Metrics: recorder.Handler(), Logger: logger}
	if cfg.Server.Token != "" {
		opts.Auth = transport.AuthMiddleware(transport.StaticToken{Token: cfg.Server.Token, User: "console"})
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: console.NewRouter(d, opts),
	}
	err := serve(ctx, logger, server)
	cancelLoad()
	d.Unmount()
	return err
}

// newDesk builds a desk over the configured upstream. The desk answers
// prompts from the request context.
func newDesk(recorder adapter.Recorder) *desk.Desk {
	client := rest.New(rest.Config{
		BaseURL: cfg.Upstream.URL,
		Token:   cfg.Upstream.Token,
		Timeout: cfg.Upstream.Timeout,
		Logger:  logger,
	})
	return desk.New(desk.Clients{
		Listeners:   client.Listeners(),
		Scheduled:   client.Scheduled(),
		Registry:    client.Registry(),
		RestScripts: client.RestScripts(),
		Executions:  client.Executions(),
		Watches:     client.Watches(),
		Jira:        client.Jira(),
	}, desk.Options{
		Confirmer: adapter.ContextConfirmer{},
		Logger:    logger,
		Metrics:   recorder,
	})
}

// serve runs server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, logger *slog.Logger, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
