// Package cli implements the vocabsync-server commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/vocabsync/internal/config"
	"github.com/iudanet/vocabsync/internal/logging"
)

// VersionInfo is set from build flags in main.
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Addr       string
	DBPath     string
	LogLevel   string
	LogFormat  string

	Version VersionInfo
}

var flagKeys = map[string]string{
	"addr":       "addr",
	"db":         "db",
	"log.level":  "log-level",
	"log.format": "log-format",
}

// NewRootCommand creates the root command for the sync server.
func NewRootCommand(version VersionInfo) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:           "vocabsync-server",
		Short:         "vocabsync cloud key/value server",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to YAML config file (env VOCABSYNC_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "", "listen address")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to sqlite database")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

func loadServerConfig(cmd *cobra.Command, opts *RootOptions) (*config.ServerConfig, error) {
	loader := config.NewLoader(config.ResolveFile(opts.ConfigFile))
	if err := loader.BindFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}

	cfg, err := loader.LoadServer()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg logging.Config) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closer, nil
}

// NewVersionCommand creates the version command.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "vocabsync server\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
				opts.Version.Version, opts.Version.BuildDate, opts.Version.GitCommit)
			return err
		},
	}
}
