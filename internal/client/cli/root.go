// Package cli implements the vocabsync client commands.
package cli

import (
	"github.com/spf13/cobra"
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
	DBPath     string
	ServerURL  string
	Token      string
	Backend    string
	LogLevel   string

	Version VersionInfo
}

// flagKeys сопоставляет ключи конфигурации глобальным флагам
var flagKeys = map[string]string{
	"db":           "db",
	"server.url":   "server",
	"server.token": "token",
	"backend":      "backend",
	"log.level":    "log-level",
}

// NewRootCommand creates the root command for the vocabsync client.
func NewRootCommand(version VersionInfo) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:           "vocabsync",
		Short:         "vocabsync - offline-first settings sync",
		Long:          "Reads and writes values in a local store and keeps them in sync with the cloud copy.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags. Empty values fall back to environment, config file and defaults.
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to YAML config file (env VOCABSYNC_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to local database")
	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", "", "sync server URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "access token for the sync server")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "cloud backend (http|s3)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewDaemonCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
