package cli

import (
	"fmt"
	"net/url"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marketctl/marketctl/pkg/cli/internal/output"
	"github.com/marketctl/marketctl/pkg/cliconfig"
)

// contextForJSON is a sanitized version of Context for JSON output.
// It masks sensitive fields like AuthToken to prevent accidental exposure.
type contextForJSON struct {
	APIURL      string `json:"apiUrl"`
	Description string `json:"description,omitempty"`
	HasToken    bool   `json:"hasToken,omitempty"`
}

// sanitizeContextForJSON converts a Context to a safe-for-output version.
func sanitizeContextForJSON(ctx *cliconfig.Context) *contextForJSON {
	return &contextForJSON{
		APIURL:      ctx.APIURL,
		Description: ctx.Description,
		HasToken:    ctx.AuthToken != "",
	}
}

var (
	contextAddToken       string
	contextAddDescription string
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage contexts (named backend + token pairs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContextShow()
	},
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runContextShow()
	},
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contexts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := cliconfig.Load()
		if err != nil {
			return err
		}

		if jsonOutput {
			sanitized := make(map[string]*contextForJSON, len(f.Contexts))
			for name, ctx := range f.Contexts {
				sanitized[name] = sanitizeContextForJSON(ctx)
			}
			return output.JSON(map[string]any{
				"currentContext": f.CurrentContext,
				"contexts":       sanitized,
			})
		}

		if len(f.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		names := make([]string, 0, len(f.Contexts))
		for name := range f.Contexts {
			names = append(names, name)
		}
		sort.Strings(names)

		w := output.Table()
		fmt.Fprintln(w, "CURRENT\tNAME\tAPI URL\tTOKEN\tDESCRIPTION")
		for _, name := range names {
			ctx := f.Contexts[name]
			marker := ""
			if name == f.CurrentContext {
				marker = "*"
			}
			token := "-"
			if ctx.AuthToken != "" {
				token = "set"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, name, ctx.APIURL, token, ctx.Description)
		}
		return w.Flush()
	},
}

var contextUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := cliconfig.Load()
		if err != nil {
			return err
		}
		name := args[0]
		if _, ok := f.Contexts[name]; !ok {
			return fmt.Errorf("context %q not found", name)
		}
		f.CurrentContext = name
		if err := cliconfig.Save(f); err != nil {
			return err
		}

		printResult(map[string]string{"currentContext": name}, func() {
			fmt.Printf("Switched to context %q\n", name)
		})
		return nil
	},
}

var contextAddCmd = &cobra.Command{
	Use:   "add <name> <api-url>",
	Short: "Add or replace a context",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, rawURL := args[0], args[1]
		if _, err := url.ParseRequestURI(rawURL); err != nil {
			return fmt.Errorf("invalid API URL %q: %w", rawURL, err)
		}

		f, err := cliconfig.Load()
		if err != nil {
			return err
		}
		f.Contexts[name] = &cliconfig.Context{
			APIURL:      rawURL,
			AuthToken:   contextAddToken,
			Description: contextAddDescription,
		}
		if f.CurrentContext == "" {
			f.CurrentContext = name
		}
		if err := cliconfig.Save(f); err != nil {
			return err
		}

		printResult(map[string]string{"context": name}, func() {
			fmt.Printf("Added context %q\n", name)
		})
		return nil
	},
}

var contextDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := cliconfig.Load()
		if err != nil {
			return err
		}
		name := args[0]
		if _, ok := f.Contexts[name]; !ok {
			return fmt.Errorf("context %q not found", name)
		}
		delete(f.Contexts, name)
		if f.CurrentContext == name {
			f.CurrentContext = ""
		}
		if err := cliconfig.Save(f); err != nil {
			return err
		}

		printResult(map[string]string{"deleted": name}, func() {
			fmt.Printf("Deleted context %q\n", name)
		})
		return nil
	},
}

// runContextShow displays the resolved connection configuration.
func runContextShow() error {
	cfg := cliconfig.Resolve(apiURL)

	type showResult struct {
		APIURL   string `json:"apiUrl"`
		Source   string `json:"source"`
		HasToken bool   `json:"hasToken"`
	}
	result := showResult{APIURL: cfg.APIURL, Source: cfg.Source, HasToken: cfg.Token != ""}

	if jsonOutput {
		return output.JSON(result)
	}

	fmt.Printf("API URL: %s (from %s)\n", result.APIURL, result.Source)
	if result.HasToken {
		fmt.Println("Token:   set")
	} else {
		fmt.Fprintln(os.Stderr, "Token:   not set (read-only access)")
	}
	return nil
}

func init() {
	contextAddCmd.Flags().StringVar(&contextAddToken, "token", "", "Bearer token stored with the context")
	contextAddCmd.Flags().StringVar(&contextAddDescription, "description", "", "Free-form note")

	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextUseCmd)
	contextCmd.AddCommand(contextAddCmd)
	contextCmd.AddCommand(contextDeleteCmd)
	rootCmd.AddCommand(contextCmd)
}
