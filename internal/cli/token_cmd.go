package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token for --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Issuer == nil {
				return fmt.Errorf("no JWT secret configured (set ACTAI_JWT_SECRET)")
			}
			tok, err := app.Issuer.GenerateToken(user())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}
