package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/admin/pkg/admin"
)

type Dashboard struct {
	cmd *cobra.Command

	mainopts *Options
	output   string
}

func NewDashboard(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard <options>",
		Short: "show the dashboard summary",
	}
	TweakCommand(cmd)

	c := &Dashboard{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "output format (json, yaml)")
	return cmd
}

func (c *Dashboard) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	format, err := CheckOutput(c.output)
	if err != nil {
		return err
	}
	s, err := c.mainopts.Service().Dashboard(ctx)
	if err != nil {
		return err
	}
	if format != OUTPUT_TABLE {
		return PrintData(c.cmd.OutOrStdout(), format, s)
	}
	PrintSummary(c.cmd.OutOrStdout(), s)
	return nil
}

func PrintSummary(w io.Writer, s *admin.Summary) {
	PrintLines(w, []string{"METRIC", "VALUE"}, [][]string{
		{"Users", fmt.Sprint(s.TotalUsers)},
		{"Active users", fmt.Sprint(s.TotalActiveUsers)},
		{"Subscriptions", fmt.Sprint(s.TotalSubscriptions)},
		{"Active subscriptions", fmt.Sprint(s.TotalActiveSubscriptions)},
		{"Pending subscriptions", fmt.Sprint(s.TotalPendingSubscriptions)},
		{"Trial subscriptions", fmt.Sprint(s.TotalTrialSubscriptions)},
		{"Subscription plans", fmt.Sprint(s.TotalSubscriptionPlans)},
	})

	fmt.Fprintf(w, "\nRecent users\n")
	if len(s.RecentUsers) == 0 {
		fmt.Fprintf(w, "no recent users\n")
	} else {
		var rows [][]string
		for _, u := range s.RecentUsers {
			rows = append(rows, []string{u.DisplayName(), u.Email, dash(u.PhoneNumber), status(u.IsActive)})
		}
		PrintLines(w, []string{"NAME", "EMAIL", "PHONE", "STATUS"}, rows)
	}

	fmt.Fprintf(w, "\nRecent subscriptions\n")
	if len(s.RecentSubscriptions) == 0 {
		fmt.Fprintf(w, "no recent subscriptions\n")
	} else {
		var rows [][]string
		for _, e := range s.RecentSubscriptions {
			rows = append(rows, []string{e.User, e.Plan, e.Status, fmt.Sprint(e.AutoRenew), dash(e.CreatedAt.Date())})
		}
		PrintLines(w, []string{"USER", "PLAN", "STATUS", "AUTORENEW", "CREATED"}, rows)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func status(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
