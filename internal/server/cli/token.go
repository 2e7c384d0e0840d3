package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/vocabsync/internal/server/handlers"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Device string
	TTL    time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for a user",
		Long: `Issue an access token signed with the configured jwt.secret.
The token is printed to stdout and is passed to clients with --token.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(cmd, opts.RootOptions)
			if err != nil {
				return err
			}

			ttl := cfg.JWT.TokenTTL
			if opts.TTL > 0 {
				ttl = opts.TTL
			}

			token, expiresIn, err := handlers.GenerateAccessToken(handlers.JWTConfig{
				Secret:         []byte(cfg.JWT.Secret),
				AccessTokenTTL: ttl,
			}, args[0], opts.Device)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, token); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Token expires in %s\n", time.Duration(expiresIn)*time.Second)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Device, "device", "", "device name stored in the token")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "token lifetime (default jwt.token_ttl)")

	return cmd
}
