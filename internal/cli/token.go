package cli

import (
	"fmt"
	"time"

	"Hydrocalc/internal/auth"

	"github.com/spf13/cobra"
)

func tokenCmd(g *globalFlags) *cobra.Command {
	var login string
	var ttl time.Duration

	c := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the premium API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			env := &auth.Authenv{JWTkey: []byte(cfg.Auth.TokenKey)}
			tok, err := env.IssueToken(login, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	c.Flags().StringVar(&login, "login", "admin", "login claim stored in the token")
	c.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return c
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
