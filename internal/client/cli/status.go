package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	clientsync "github.com/iudanet/vocabsync/internal/client/sync"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Format string
}

// statusReport is the JSON form of the status command output.
type statusReport struct {
	Backend             string `json:"backend"`
	CloudAvailable      bool   `json:"cloud_available"`
	QueueDepth          int    `json:"queue_depth"`
	RetryDelaySeconds   int64  `json:"retry_delay_seconds"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	LastPushAt          int64  `json:"last_push_at,omitempty"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pending queue depth and cloud availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
			}
			return runStatus(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

func runStatus(cmd *cobra.Command, opts *StatusOptions) error {
	return withApp(cmd, opts.RootOptions, func(a *app) error {
		st, err := a.engine.Status(cmd.Context())
		if err != nil {
			return err
		}

		report := statusReport{
			Backend:             a.cfg.Backend,
			CloudAvailable:      a.cloud.CheckAvailability(cmd.Context()),
			QueueDepth:          st.QueueDepth,
			RetryDelaySeconds:   int64(st.CurrentDelay / time.Second),
			ConsecutiveFailures: st.ConsecutiveFailures,
			LastPushAt:          st.LastPushAt,
		}

		if opts.Format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		return printStatus(cmd.OutOrStdout(), report, st)
	})
}

func printStatus(out io.Writer, report statusReport, st clientsync.Status) error {
	cloud := "unavailable"
	if report.CloudAvailable {
		cloud = "available"
	}
	lastPush := "never"
	if st.LastPushAt > 0 {
		lastPush = time.Unix(st.LastPushAt, 0).Format(time.RFC3339)
	}

	_, err := fmt.Fprintf(out, `=== Sync Status ===
Backend:     %s (%s)
Pending:     %d value(s)
Retry delay: %s
Failures:    %d
Last push:   %s
`, report.Backend, cloud, st.QueueDepth, st.CurrentDelay, st.ConsecutiveFailures, lastPush)
	return err
}
