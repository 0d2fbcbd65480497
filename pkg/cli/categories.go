package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketctl/marketctl/pkg/cli/internal/output"
	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
	"github.com/marketctl/marketctl/pkg/validation"
)

var (
	categoryName string
	categorySlug string
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage marketplace categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().Categories().List(cmd.Context(), marketplace.ListQuery{})
		if err != nil {
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(result, func() {
			if len(result.Data) == 0 {
				fmt.Println("No categories found")
				return
			}
			w := output.Table()
			fmt.Fprintln(w, "ID\tNAME\tSLUG\tACTIVE\tPOPULAR")
			for _, c := range result.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n", c.ID, c.Name, c.Slug, c.Active, c.Popular)
			}
			_ = w.Flush()
		})
		return nil
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := client.CategoryDraft{Name: categoryName, Slug: categorySlug}
		result, err := validation.ValidatePayload(validation.ResourceCategory, draft)
		if err != nil {
			return err
		}
		if err := result.Err(); err != nil {
			return err
		}

		cat, err := newClient().Categories().Create(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(cat, func() { fmt.Printf("Created category %s (%s)\n", cat.ID, cat.Name) })
		return nil
	},
}

// categoryToggleCmd builds a command flipping one category flag.
func categoryToggleCmd(use, short string, fn func(*cobra.Command, string) (*marketplace.Category, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := fn(cmd, args[0])
			if err != nil {
				if client.IsNotFoundError(err) {
					return fmt.Errorf("category %q not found", args[0])
				}
				return fmt.Errorf("%s", formatConnectionError(err))
			}
			printResult(cat, func() {
				fmt.Printf("Category %s: active=%t popular=%t\n", cat.ID, cat.Active, cat.Popular)
			})
			return nil
		},
	}
}

func init() {
	categoriesCreateCmd.Flags().StringVar(&categoryName, "name", "", "Category name")
	categoriesCreateCmd.Flags().StringVar(&categorySlug, "slug", "", "URL slug")

	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesCreateCmd)
	categoriesCmd.AddCommand(categoryToggleCmd("activate", "Activate a category",
		func(cmd *cobra.Command, id string) (*marketplace.Category, error) {
			return newClient().Categories().SetActive(cmd.Context(), id, true)
		}))
	categoriesCmd.AddCommand(categoryToggleCmd("deactivate", "Deactivate a category",
		func(cmd *cobra.Command, id string) (*marketplace.Category, error) {
			return newClient().Categories().SetActive(cmd.Context(), id, false)
		}))
	categoriesCmd.AddCommand(categoryToggleCmd("feature", "Mark a category popular",
		func(cmd *cobra.Command, id string) (*marketplace.Category, error) {
			return newClient().Categories().SetPopular(cmd.Context(), id, true)
		}))
	categoriesCmd.AddCommand(categoryToggleCmd("unfeature", "Clear the popular flag",
		func(cmd *cobra.Command, id string) (*marketplace.Category, error) {
			return newClient().Categories().SetPopular(cmd.Context(), id, false)
		}))
	rootCmd.AddCommand(categoriesCmd)
}
