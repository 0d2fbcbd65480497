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
	servicesPage     int
	servicesLimit    int
	servicesStatus   string
	servicesSearch   string
	servicesCategory string
	servicesSort     string

	serviceTitle       string
	serviceDescription string
	serviceCategoryID  string
	servicePrice       float64
	serviceReason      string
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage marketplace service listings",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List service listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := marketplace.ListQuery{
			Page:       servicesPage,
			Limit:      servicesLimit,
			Search:     servicesSearch,
			CategoryID: servicesCategory,
			Sort:       servicesSort,
		}
		if servicesStatus != "" {
			st := marketplace.Status(servicesStatus)
			if !st.Valid() {
				return fmt.Errorf("unknown status %q", servicesStatus)
			}
			q.Status = st
		}

		result, err := newClient().Services().List(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(result, func() {
			printServiceTable(result.Data)
			if result.Pagination.TotalPages > 1 {
				fmt.Printf("\nPage %d of %d (%d total)\n",
					result.Pagination.CurrentPage, result.Pagination.TotalPages, result.Pagination.TotalItems)
			}
		})
		return nil
	},
}

var servicesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one service listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newClient().Services().Get(cmd.Context(), args[0])
		if err != nil {
			if client.IsNotFoundError(err) {
				return fmt.Errorf("service %q not found", args[0])
			}
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(svc, func() { printService(svc) })
		return nil
	},
}

var servicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a service listing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := client.ServiceDraft{
			Title:       serviceTitle,
			Description: serviceDescription,
			CategoryID:  serviceCategoryID,
			Price:       servicePrice,
		}
		result, err := validation.ValidatePayload(validation.ResourceService, draft)
		if err != nil {
			return err
		}
		if err := result.Err(); err != nil {
			return err
		}

		svc, err := newClient().Services().Create(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(svc, func() { fmt.Printf("Created service %s (%s)\n", svc.ID, svc.Title) })
		return nil
	},
}

var servicesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a service listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := client.ServiceDraft{
			Title:       serviceTitle,
			Description: serviceDescription,
			CategoryID:  serviceCategoryID,
			Price:       servicePrice,
		}
		result, err := validation.ValidatePayload(validation.ResourceService, draft)
		if err != nil {
			return err
		}
		if err := result.Err(); err != nil {
			return err
		}

		svc, err := newClient().Services().Update(cmd.Context(), args[0], draft)
		if err != nil {
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(svc, func() { fmt.Printf("Updated service %s\n", svc.ID) })
		return nil
	},
}

var servicesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a service listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Services().Delete(cmd.Context(), args[0]); err != nil {
			if client.IsNotFoundError(err) {
				return fmt.Errorf("service %q not found", args[0])
			}
			return fmt.Errorf("%s", formatConnectionError(err))
		}

		printResult(map[string]string{"deleted": args[0]}, func() {
			fmt.Printf("Deleted service %s\n", args[0])
		})
		return nil
	},
}

// transitionCmd builds a command for one moderation transition.
func transitionCmd(use, short string, withReason bool, fn func(*cobra.Command, string, string) (*marketplace.Service, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := fn(cmd, args[0], serviceReason)
			if err != nil {
				if client.IsNotFoundError(err) {
					return fmt.Errorf("service %q not found", args[0])
				}
				return fmt.Errorf("%s", formatConnectionError(err))
			}
			printResult(svc, func() { fmt.Printf("Service %s is now %s\n", svc.ID, svc.Status) })
			return nil
		},
	}
	if withReason {
		cmd.Flags().StringVar(&serviceReason, "reason", "", "Reason recorded with the transition")
	}
	return cmd
}

func printServiceTable(services []marketplace.Service) {
	if len(services) == 0 {
		fmt.Println("No services found")
		return
	}
	w := output.Table()
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tCATEGORY\tPRICE\tPOPULAR")
	for _, s := range services {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%t\n",
			s.ID, s.Title, s.Status, s.CategoryID, s.Price, s.Popular)
	}
	_ = w.Flush()
}

func printService(s *marketplace.Service) {
	fmt.Printf("ID:          %s\n", s.ID)
	fmt.Printf("Title:       %s\n", s.Title)
	fmt.Printf("Status:      %s\n", s.Status)
	fmt.Printf("Category:    %s\n", s.CategoryID)
	fmt.Printf("Price:       %.2f\n", s.Price)
	fmt.Printf("Popular:     %t\n", s.Popular)
	if !s.SubmittedBy.IsZero() {
		fmt.Printf("Submitted:   %s\n", s.SubmittedBy.Label())
	}
	if s.Description != "" {
		fmt.Printf("Description: %s\n", s.Description)
	}
}

func init() {
	servicesListCmd.Flags().IntVar(&servicesPage, "page", 0, "Page number")
	servicesListCmd.Flags().IntVar(&servicesLimit, "limit", 0, "Items per page")
	servicesListCmd.Flags().StringVar(&servicesStatus, "status", "", "Filter by status: pending, approved, rejected, flagged, archived")
	servicesListCmd.Flags().StringVar(&servicesSearch, "search", "", "Full-text search")
	servicesListCmd.Flags().StringVar(&servicesCategory, "category", "", "Filter by category ID")
	servicesListCmd.Flags().StringVar(&servicesSort, "sort", "", "Sort order")

	for _, c := range []*cobra.Command{servicesCreateCmd, servicesUpdateCmd} {
		c.Flags().StringVar(&serviceTitle, "title", "", "Listing title")
		c.Flags().StringVar(&serviceDescription, "description", "", "Listing description")
		c.Flags().StringVar(&serviceCategoryID, "category", "", "Category ID")
		c.Flags().Float64Var(&servicePrice, "price", 0, "Listing price")
	}

	servicesCmd.AddCommand(servicesListCmd)
	servicesCmd.AddCommand(servicesGetCmd)
	servicesCmd.AddCommand(servicesCreateCmd)
	servicesCmd.AddCommand(servicesUpdateCmd)
	servicesCmd.AddCommand(servicesDeleteCmd)
	servicesCmd.AddCommand(transitionCmd("approve", "Approve a pending listing", false,
		func(cmd *cobra.Command, id, _ string) (*marketplace.Service, error) {
			return newClient().Services().Approve(cmd.Context(), id)
		}))
	servicesCmd.AddCommand(transitionCmd("reject", "Reject a pending listing", true,
		func(cmd *cobra.Command, id, reason string) (*marketplace.Service, error) {
			return newClient().Services().Reject(cmd.Context(), id, reason)
		}))
	servicesCmd.AddCommand(transitionCmd("restore", "Restore a rejected or archived listing", false,
		func(cmd *cobra.Command, id, _ string) (*marketplace.Service, error) {
			return newClient().Services().Restore(cmd.Context(), id)
		}))
	servicesCmd.AddCommand(transitionCmd("flag", "Flag a listing for review", true,
		func(cmd *cobra.Command, id, reason string) (*marketplace.Service, error) {
			return newClient().Services().Flag(cmd.Context(), id, reason)
		}))
	rootCmd.AddCommand(servicesCmd)
}
