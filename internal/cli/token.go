package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"RMGScale/internal/auth"
	"RMGScale/internal/config"
)

func (a *app) tokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := &auth.Authenv{JWTkey: []byte(a.cfg.AuthKey)}
			token, err := env.IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&subject, "subject", "rmgscale", "token subject")
	f.DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	f.StringVar(&a.cfg.AuthKey, config.FlagAuthKey, a.cfg.AuthKey, "HS256 signing key")
	return cmd
}
