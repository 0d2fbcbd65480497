package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketctl/marketctl/pkg/auth"
	"github.com/marketctl/marketctl/pkg/cliconfig"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the configured token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cliconfig.Resolve(apiURL)
		if cfg.Token == "" {
			return errors.New("no token configured: set MARKETCTL_TOKEN or add one to the active context")
		}

		claims, err := auth.ParseToken(cfg.Token)
		if err != nil {
			return fmt.Errorf("cannot read token: %w", err)
		}

		printResult(claims, func() {
			fmt.Printf("Subject: %s\n", claims.Subject)
			if claims.Email != "" {
				fmt.Printf("Email:   %s\n", claims.Email)
			}
			fmt.Printf("Role:    %s\n", claims.Role)
			if claims.Expired() {
				fmt.Println("Status:  EXPIRED")
			} else if claims.Role.CanModerate() {
				fmt.Println("Status:  moderation access")
			}
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
