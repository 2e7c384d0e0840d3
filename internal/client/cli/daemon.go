package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewDaemonCommand creates the daemon command.
func NewDaemonCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Drain the pending queue in the background until interrupted",
		Long: `Drain the pending queue in the background until interrupted.

The daemon opens the local database only while a batch is being pushed,
so get, set and status keep working while it sleeps. A command started
during a batch waits up to db_lock_timeout for the file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return withStore(cmd, opts, openLeased, func(a *app) error {
				a.logger.Info("Sync daemon started", "db", a.cfg.DBPath, "backend", a.cfg.Backend)

				err := a.engine.Run(ctx)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					a.logger.Info("Sync daemon stopped")
					return nil
				}
				return err
			})
		},
	}
}
