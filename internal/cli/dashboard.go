package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apihttp "scan-dashboard/internal/common/http"
	"scan-dashboard/internal/dashboard"
)

func (c *CLI) newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Read the dashboard endpoints",
	}
	cmd.AddCommand(c.newOverviewCmd())
	cmd.AddCommand(c.newActivityCmd())
	cmd.AddCommand(c.newCategoriesCmd())
	cmd.AddCommand(c.newStatusCmd())
	return cmd
}

func (c *CLI) dashboardService() *dashboard.Service {
	return dashboard.NewService(c.client(), c.log)
}

// fail reports an unsuccessful envelope.
func (c *CLI) fail(resp *apihttp.APIResponse) error {
	return c.report(resp, "")
}

func (c *CLI) newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Headline scan figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, resp, err := c.dashboardService().Overview(cmd.Context())
			if err != nil {
				return err
			}
			if o == nil {
				return c.fail(resp)
			}
			if c.jsonOutput {
				return c.outputJSON(o)
			}

			tw := tabwriter.NewWriter(c.stdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Total scans\t%d\t%+.1f%%\n", o.TotalScans, o.ScansChange)
			fmt.Fprintf(tw, "Accuracy\t%.1f%%\t%+.1f%%\n", o.Accuracy, o.AccuracyChange)
			fmt.Fprintf(tw, "Time saved\t%.1fh\t%+.1f%%\n", o.TimeSaved, o.TimeChange)
			fmt.Fprintf(tw, "Cost savings\t%.2f\t%+.1f%%\n", o.CostSavings, o.CostChange)
			return tw.Flush()
		},
	}
}

func (c *CLI) newActivityCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Scan activity over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, resp, err := c.dashboardService().ScanActivity(cmd.Context(), dashboard.Period(period))
			if err != nil {
				return err
			}
			if a == nil {
				return c.fail(resp)
			}
			if c.jsonOutput {
				return c.outputJSON(a)
			}

			tw := tabwriter.NewWriter(c.stdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tSCANS\tACCURACY")
			for _, p := range a.Activity {
				fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", p.Date, p.Scans, p.Accuracy)
			}
			fmt.Fprintf(tw, "total\t%d\t\n", a.TotalScans())
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&period, "period", string(dashboard.Period7Days), fmt.Sprintf("window %v", dashboard.Periods))
	return cmd
}

func (c *CLI) newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Scan distribution by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, resp, err := c.dashboardService().CategoryDistribution(cmd.Context())
			if err != nil {
				return err
			}
			if d == nil {
				return c.fail(resp)
			}
			if c.jsonOutput {
				return c.outputJSON(d)
			}

			tw := tabwriter.NewWriter(c.stdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tCOUNT\tSHARE")
			for _, s := range d.Categories {
				fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", s.Category, s.Count, s.Percentage)
			}
			return tw.Flush()
		},
	}
}

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Backend system status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, resp, err := c.dashboardService().SystemStatus(cmd.Context())
			if err != nil {
				return err
			}
			if s == nil {
				return c.fail(resp)
			}
			if c.jsonOutput {
				return c.outputJSON(s)
			}

			w := c.stdout()
			fmt.Fprintf(w, "Status:    %s\n", s.Status)
			fmt.Fprintf(w, "Last sync: %s\n", s.LastSync)
			if len(s.Services) == 0 {
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SERVICE\tSTATUS\tLATENCY")
			for _, svc := range s.Services {
				fmt.Fprintf(tw, "%s\t%s\t%dms\n", svc.Name, svc.Status, svc.Latency)
			}
			return tw.Flush()
		},
	}
}
