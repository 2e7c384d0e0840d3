package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List keys stored locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				keys, err := a.store.Keys(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, key := range keys {
					if _, err := fmt.Fprintln(out, key); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
