package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marketctl/marketctl/pkg/cli/internal/output"
	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/moderation"
	"github.com/marketctl/marketctl/pkg/notify"
	"github.com/marketctl/marketctl/pkg/resource"
)

var (
	moderateIDs    []string
	moderateAll    bool
	moderateYes    bool
	moderateReason string
	moderateFilter string
)

var moderateCmd = &cobra.Command{
	Use:   "moderate",
	Short: "Review the moderation queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := loadQueue(cmd)
		if err != nil {
			return err
		}

		pending := q.Pending()
		if moderateFilter != "" {
			f, err := moderation.CompileFilter(moderateFilter)
			if err != nil {
				return fmt.Errorf("bad filter: %w", err)
			}
			pending = q.Matching(f)
		}

		printResult(pending, func() {
			if stats := q.Stats(); stats != nil {
				fmt.Printf("Pending: %d  Flagged: %d  Approved today: %d  Rejected today: %d\n\n",
					stats.PendingServices, stats.FlaggedServices, stats.ApprovedToday, stats.RejectedToday)
			}
			printServiceTable(pending)
		})
		return nil
	},
}

// moderateBulkCmd builds one bulk moderation verb.
func moderateBulkCmd(use, short string, fn func(*cobra.Command, *moderation.Queue) (*client.BatchResult, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQueue(cmd)
			if err != nil {
				return err
			}

			sel := q.Selection()
			if moderateAll {
				for _, svc := range q.Pending() {
					sel.Add(svc.ID)
				}
			}
			for _, id := range moderateIDs {
				sel.Add(id)
			}
			if sel.Len() == 0 {
				return fmt.Errorf("nothing selected: pass --ids or --all")
			}

			if !moderateYes {
				confirmed, err := confirmBulk(use, sel.Len())
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(os.Stderr, "Aborted")
					return nil
				}
			}

			result, err := fn(cmd, q)
			if err != nil {
				return fmt.Errorf("%s", formatConnectionError(err))
			}

			printResult(result, func() {
				fmt.Printf("%d of %d succeeded\n", len(result.Succeeded), result.Requested)
				for _, f := range result.Failed {
					output.Warn("%s: %s", f.ID, f.Message)
				}
			})
			if !result.AllSucceeded() {
				return fmt.Errorf("%d items failed", len(result.Failed))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&moderateIDs, "ids", nil, "Service IDs to act on")
	cmd.Flags().BoolVar(&moderateAll, "all", false, "Act on every pending item")
	cmd.Flags().BoolVar(&moderateYes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

// loadQueue builds a moderation queue over a fresh client and loads it.
func loadQueue(cmd *cobra.Command) (*moderation.Queue, error) {
	c := newClient()
	services := resource.NewServices(c.Services(), resource.WithNotifier(notify.Nop{}))
	q := moderation.NewQueue(services, c)
	if err := q.Load(cmd.Context()); err != nil {
		return nil, fmt.Errorf("%s", formatConnectionError(err))
	}
	return q, nil
}

// confirmBulk asks the operator to confirm a bulk action.
func confirmBulk(verb string, count int) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %d items?", verb, count)).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func init() {
	moderateCmd.Flags().StringVar(&moderateFilter, "filter", "", `Saved-filter expression, e.g. 'status == "flagged" && price > 100'`)

	moderateCmd.AddCommand(moderateBulkCmd("approve", "Approve selected queue items",
		func(cmd *cobra.Command, q *moderation.Queue) (*client.BatchResult, error) {
			return q.BulkApprove(cmd.Context())
		}))
	rejectCmd := moderateBulkCmd("reject", "Reject selected queue items",
		func(cmd *cobra.Command, q *moderation.Queue) (*client.BatchResult, error) {
			return q.BulkReject(cmd.Context(), moderateReason)
		})
	rejectCmd.Flags().StringVar(&moderateReason, "reason", "", "Reason recorded with each rejection")
	moderateCmd.AddCommand(rejectCmd)
	moderateCmd.AddCommand(moderateBulkCmd("delete", "Archive selected queue items",
		func(cmd *cobra.Command, q *moderation.Queue) (*client.BatchResult, error) {
			return q.BulkDelete(cmd.Context())
		}))
	rootCmd.AddCommand(moderateCmd)
}
