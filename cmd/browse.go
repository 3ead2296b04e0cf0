// ABOUTME: Browse command for the catalog console
// ABOUTME: Launches the terminal catalog browser backed by the session token file

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storeops/catalog-console/config"
	"github.com/storeops/catalog-console/internal/tui"
	"github.com/storeops/catalog-console/logger"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog in the terminal",
	Long: `Browse the admin product list in an interactive terminal UI.

The session token is kept in TOKEN_FILE so later runs (and the check command)
reuse it until it expires. Logs go to browse.log next to the token file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		closeLog, err := logger.InitFile(filepath.Dir(cfg.TokenFile), "browse.log")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closeLog()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		views := services.NewMemoryViewStore()
		defer views.Close()

		tokens := tokenstore.NewFileStore(cfg.TokenFile)
		slog.Info("Starting terminal browser", "api", cfg.APIBase, "token_file", tokens.Path())

		return tui.Run(ctx, newSessionManager(cfg, views), tokens, apiHost(cfg.APIBase))
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
