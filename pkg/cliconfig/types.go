// Package cliconfig loads and resolves configuration for the marketctl CLI.
//
// Values come from several sources with a fixed precedence:
//
//  1. Command-line flags (highest)
//  2. Environment variables (MARKETCTL_API_URL, MARKETCTL_TOKEN, MARKETCTL_CONTEXT)
//  3. The selected context in the contexts file
//  4. Defaults (lowest)
//
// Contexts pair an API URL with an auth token, kubeconfig-style, so an
// operator can switch between staging and production backends with one
// command instead of re-flagging every call.
package cliconfig

// DefaultAPIURL is where a locally run marketplace backend listens.
const DefaultAPIURL = "http://localhost:4380"

// Environment variable names.
const (
	EnvAPIURL  = "MARKETCTL_API_URL"
	EnvToken   = "MARKETCTL_TOKEN"
	EnvContext = "MARKETCTL_CONTEXT"
)

// Context is one named backend the CLI can talk to.
type Context struct {
	// APIURL is the marketplace API root.
	APIURL string `yaml:"apiUrl"`
	// AuthToken is the bearer token attached to requests. May be empty for
	// anonymous browsing.
	AuthToken string `yaml:"authToken,omitempty"`
	// Description is a free-form operator note.
	Description string `yaml:"description,omitempty"`
}

// File is the on-disk shape of the contexts file.
type File struct {
	// CurrentContext names the active entry in Contexts.
	CurrentContext string `yaml:"currentContext,omitempty"`
	// Contexts maps context names to their settings.
	Contexts map[string]*Context `yaml:"contexts,omitempty"`
}

// Current returns the active context, or nil when none is selected.
func (f *File) Current() *Context {
	if f == nil || f.CurrentContext == "" {
		return nil
	}
	return f.Contexts[f.CurrentContext]
}

// ClientConfig is the fully resolved connection configuration a command
// uses to build a client.
type ClientConfig struct {
	// APIURL is the resolved API root.
	APIURL string
	// Token is the resolved bearer token, possibly empty.
	Token string
	// Source records where APIURL came from, for `marketctl context show`.
	Source string
}

// Resolution sources.
const (
	SourceDefault = "default"
	SourceContext = "context"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
