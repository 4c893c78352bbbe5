package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rpggio/scriptdesk/internal/sqlite"
	"github.com/rpggio/scriptdesk/internal/transport"
	"github.com/spf13/cobra"
)

var emulatorPort int

var emulatorCmd = &cobra.Command{
	Use:   "emulator",
	Short: "Serve a local emulation of the add-on REST API",
	Long: `Serve the add-on REST API over a SQLite database (SCRIPTDESK_DB_PATH).
When an emulator token is configured, requests must carry it as a bearer
token; otherwise every request acts as the configured emulator user.`,
	Args: cobra.NoArgs,
	RunE: runEmulator,
}

func init() {
	emulatorCmd.Flags().IntVar(&emulatorPort, "port", 8090, "listen port")
}

func runEmulator(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := ensureDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	auth := transport.StaticUser(cfg.Emulator.UserKey)
	if cfg.Emulator.Token != "" {
		keys := sqlite.NewAPIKeyRepository(db)
		if err := keys.Add(ctx, cfg.Emulator.Token, cfg.Emulator.UserKey, "emulator"); err != nil {
			return err
		}
		auth = transport.AuthMiddleware(keys)
	}

	runs := sqlite.NewExecutionRepository(db)
	if cfg.Emulator.Retention > 0 {
		pruned, err := runs.DeleteBefore(ctx, time.Now().Add(-cfg.Emulator.Retention))
		if err != nil {
			return fmt.Errorf("prune executions: %w", err)
		}
		logger.Info("executions pruned", "count", pruned, "retention", cfg.Emulator.Retention)
	}

	router := transport.NewServer(transport.Repositories{
		Listeners:   sqlite.NewListenerRepository(db),
		Tasks:       sqlite.NewTaskRepository(db),
		Registry:    sqlite.NewRegistryRepository(db),
		RestScripts: sqlite.NewRestScriptRepository(db),
		Executions:  runs,
		Watches:     sqlite.NewWatchRepository(db),
		Reference:   sqlite.NewReferenceRepository(db),
	}, auth, logger)

	return serve(ctx, logger, &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, emulatorPort),
		Handler: router,
	})
}
