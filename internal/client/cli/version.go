package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, err := fmt.Fprintf(out, "vocabsync client\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
				opts.Version.Version, opts.Version.BuildDate, opts.Version.GitCommit)
			return err
		},
	}
}
