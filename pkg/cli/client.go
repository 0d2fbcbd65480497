package cli

import (
	"fmt"

	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/cliconfig"
)

// newClient builds an API client from the resolved CLI configuration.
func newClient() *client.Client {
	cfg := cliconfig.Resolve(apiURL)
	opts := []client.Option{}
	if cfg.Token != "" {
		opts = append(opts, client.WithToken(cfg.Token))
	}
	return client.New(cfg.APIURL, opts...)
}

// formatConnectionError turns a failed request into an actionable message.
func formatConnectionError(err error) string {
	cfg := cliconfig.Resolve(apiURL)
	if client.IsAuthError(err) {
		return fmt.Sprintf("authentication failed against %s: %v\nSet MARKETCTL_TOKEN or add a token to the active context.", cfg.APIURL, err)
	}
	return fmt.Sprintf("cannot reach marketplace API at %s: %v\nIs the backend running? Use --api-url or `marketctl context use` to point elsewhere.", cfg.APIURL, err)
}
