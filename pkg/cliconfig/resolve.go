package cliconfig

import "os"

// Resolve merges flag, environment, context, and default values into the
// connection configuration a command should use. flagURL is the value of the
// --api-url flag, empty when the user did not pass it.
func Resolve(flagURL string) ClientConfig {
	cfg := ClientConfig{
		APIURL: DefaultAPIURL,
		Source: SourceDefault,
	}

	file, err := Load()
	if err == nil {
		name := file.CurrentContext
		if env := os.Getenv(EnvContext); env != "" {
			name = env
		}
		if ctx := file.Contexts[name]; ctx != nil {
			if ctx.APIURL != "" {
				cfg.APIURL = ctx.APIURL
				cfg.Source = SourceContext
			}
			cfg.Token = ctx.AuthToken
		}
	}

	if env := os.Getenv(EnvAPIURL); env != "" {
		cfg.APIURL = env
		cfg.Source = SourceEnv
	}
	if env := os.Getenv(EnvToken); env != "" {
		cfg.Token = env
	}

	if flagURL != "" {
		cfg.APIURL = flagURL
		cfg.Source = SourceFlag
	}

	return cfg
}
