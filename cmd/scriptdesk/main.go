// Command scriptdesk serves the scripting add-on administration console,
// its MCP tool surface and a local emulator of the add-on API.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpggio/scriptdesk/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	// configFile is set by the --config flag.
	configFile string
	// logLevel is set by the --log-level flag.
	logLevel string

	cfg     config.Config
	logger  *slog.Logger
	logFile io.Closer
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scriptdesk",
	Short: "Administration console for tracker scripting add-ons",
	Long: `scriptdesk manages the event listeners, scheduled tasks and registry
scripts of a tracker scripting add-on. It serves the console as JSON pages,
exposes the same operations as MCP tools and can emulate the add-on API for
local development.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (overrides SCRIPTDESK_CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(emulatorCmd)
	rootCmd.AddCommand(lsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "scriptdesk", version)
	},
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if configFile != "" {
		if err := os.Setenv("SCRIPTDESK_CONFIG_PATH", configFile); err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	// Stdio MCP owns stdout.
	logWriter := io.Writer(os.Stdout)
	if cmd.Name() == "mcp" && cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			logFile = file
			logWriter = fileWriter
		}
	}
	logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return nil
}
