package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	Fresh bool
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a key",
		Long: `Print the local value of a key. A missing key prints an empty line.

By default the value is printed immediately and the key is reconciled with
the cloud afterwards. With --fresh the reconciliation runs first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "reconcile with the cloud before printing")

	return cmd
}

func runGet(cmd *cobra.Command, opts *GetOptions, key string) error {
	return withApp(cmd, opts.RootOptions, func(a *app) error {
		get := a.engine.Get
		if opts.Fresh {
			get = a.engine.GetBlocking
		}

		value, err := get(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to get %q: %w", key, err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
		return err
	})
}
