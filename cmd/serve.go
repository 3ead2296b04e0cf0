// ABOUTME: Serve command for the catalog console
// ABOUTME: Runs the HTML console and JSON API with graceful shutdown on SIGINT/SIGTERM

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/storeops/catalog-console/config"
	"github.com/storeops/catalog-console/handlers"
	"github.com/storeops/catalog-console/logger"
	"github.com/storeops/catalog-console/middleware"
	"github.com/storeops/catalog-console/services"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin console",
	Long: `Serve the HTML console at / and the JSON API under /api/v1.

The session token is kept in the task2-token cookie. Per-session view state
lives in memory or in Redis (VIEW_STORE=redis).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Init()

		cfg, err := config.Load()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		ln, err := net.Listen("tcp", ":"+cfg.Port)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
		}
		return runServe(ctx, cfg, ln)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (overrides PORT)")
}

// newSessionManager wires the catalog client to a session manager over views.
func newSessionManager(cfg *config.Config, views services.ViewStore) *services.SessionManager {
	api := services.NewCatalogClient(cfg.APIBase, cfg.APIPath, cfg.APITimeout).
		WithAuthScheme(cfg.APIAuthScheme)
	return services.NewSessionManager(api, views, cfg.SessionDefaultTTL)
}

// runServe serves on ln until ctx is cancelled, then drains in-flight
// requests and closes the view store.
func runServe(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	slog.Info("Starting catalog console")
	slog.Info("Catalog API configured", "url", cfg.APIBase, "path", cfg.APIPath)

	views, err := services.NewViewStore(ctx, cfg)
	if err != nil {
		ln.Close()
		slog.Error("Failed to open view store", "driver", cfg.ViewStore, "error", err)
		return err
	}
	defer func() {
		if err := views.Close(); err != nil {
			slog.Warn("Failed to close view store", "error", err)
		}
	}()
	slog.Info("View store initialized", "driver", cfg.ViewStore)

	h := handlers.NewHandler(cfg, newSessionManager(cfg, views))

	var limits handlers.Limiters
	if cfg.RateLimitEnabled {
		limits.Login = middleware.NewRateLimiter(cfg.RateLimitLogin, time.Minute)
		limits.Refresh = middleware.NewRateLimiter(cfg.RateLimitRefresh, time.Minute)
		slog.Info("Rate limiting enabled", "login_per_minute", cfg.RateLimitLogin, "refresh_per_minute", cfg.RateLimitRefresh)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	srv := &http.Server{
		Handler:           handlers.NewRouter(h, limits),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		return err
	}
	slog.Info("Server stopped")
	return nil
}
