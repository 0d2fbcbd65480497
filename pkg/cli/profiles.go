package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketctl/marketctl/pkg/cli/internal/output"
	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
)

var profileUnverify bool

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage provider profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List provider profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().Profiles().List(cmd.Context(), marketplace.ListQuery{})
		if err != nil {
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(result, func() {
			if len(result.Data) == 0 {
				fmt.Println("No profiles found")
				return
			}
			w := output.Table()
			fmt.Fprintln(w, "ID\tNAME\tVERIFIED\tSERVICES")
			for _, p := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%t\t%d\n", p.ID, p.DisplayTag, p.Verified, p.ServicesRun)
			}
			_ = w.Flush()
		})
		return nil
	},
}

var profilesVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Set or clear a profile's verified badge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := newClient().Profiles().SetVerified(cmd.Context(), args[0], !profileUnverify)
		if err != nil {
			if client.IsNotFoundError(err) {
				return fmt.Errorf("profile %q not found", args[0])
			}
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(profile, func() {
			fmt.Printf("Profile %s: verified=%t\n", profile.ID, profile.Verified)
		})
		return nil
	},
}

func init() {
	profilesVerifyCmd.Flags().BoolVar(&profileUnverify, "remove", false, "Clear the badge instead of setting it")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesVerifyCmd)
	rootCmd.AddCommand(profilesCmd)
}
