package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clientsync "github.com/iudanet/vocabsync/internal/client/sync"
)

// NewSetCommand creates the set command.
func NewSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value locally and push it to the cloud",
		Long: `Store a value in the local database and push it to the cloud.

When the cloud is unreachable the value is queued and pushed later by
"vocabsync daemon". A running daemon releases the database between
batches; during a batch set waits up to db_lock_timeout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, opts, args[0], args[1])
		},
	}
}

func runSet(cmd *cobra.Command, opts *RootOptions, key, value string) error {
	return withApp(cmd, opts, func(a *app) error {
		task, err := a.engine.Set(cmd.Context(), key, value)
		if err != nil {
			return fmt.Errorf("failed to set %q: %w", key, err)
		}

		if err := task.Wait(cmd.Context()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch task.Result() {
		case clientsync.Pushed:
			_, err = fmt.Fprintf(out, "✓ %s saved and synchronized\n", key)
		case clientsync.Queued:
			_, err = fmt.Fprintf(out, "%s saved locally, cloud unavailable: queued for sync\n", key)
		default:
			return fmt.Errorf("%s saved locally, but the sync step %s", key, task.Result())
		}
		return err
	})
}
