package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/vocabsync/internal/config"
	"github.com/iudanet/vocabsync/internal/server"
	"github.com/iudanet/vocabsync/internal/server/handlers"
	"github.com/iudanet/vocabsync/internal/server/storage/sqlite"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadServerConfig(cmd, opts)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
			}

			return serve(ctx, cfg, opts.Version.Version, ln)
		},
	}
}

// serve runs the server on ln until ctx is cancelled. ln is closed on return.
func serve(ctx context.Context, cfg *config.ServerConfig, version string, ln net.Listener) error {
	logger, logCloser, err := newLogger(cfg.Log)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() {
		_ = logCloser.Close()
	}()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Failed to close database", "error", cerr)
		}
	}()

	srv := server.New(cfg.Addr, server.Options{
		Logger:  logger,
		Storage: store,
		JWT: handlers.JWTConfig{
			Secret:         []byte(cfg.JWT.Secret),
			AccessTokenTTL: cfg.JWT.TokenTTL,
		},
		Version:         version,
		RateLimit:       cfg.RateLimit.Requests,
		RateWindow:      cfg.RateLimit.Window,
		ShutdownTimeout: cfg.ShutdownTimeout,
	})

	logger.Info("Starting vocabsync server", "addr", ln.Addr().String(), "db", cfg.DBPath, "version", version)

	if err := srv.Serve(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
