package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketctl/marketctl/pkg/cliconfig"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check if the marketplace backend is healthy and reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := cliconfig.Resolve(apiURL)

		type healthResult struct {
			Status string `json:"status"`
			APIURL string `json:"apiUrl"`
			Error  string `json:"error,omitempty"`
		}

		err := newClient().Health(cmd.Context())
		if err != nil {
			result := healthResult{Status: "unhealthy", APIURL: cfg.APIURL, Error: err.Error()}
			if jsonOutput {
				data, _ := json.MarshalIndent(result, "", "  ")
				fmt.Println(string(data))
			} else {
				fmt.Fprintf(os.Stderr, "unhealthy: %s\n", formatConnectionError(err))
			}
			return errors.New("backend is not healthy")
		}

		result := healthResult{Status: "healthy", APIURL: cfg.APIURL}
		if jsonOutput {
			data, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Println("healthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
