package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the prioritized upgrades without trying them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := c.app.Plan(cmd.Context(), runOptions(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if plan.Empty() {
				_, err = fmt.Fprintln(out, "All packages are up to date.")
				return err
			}
			for i, item := range plan.Items {
				if _, err := fmt.Fprintf(out, "%2d. %s %s -> %s (risk %.0f)\n",
					i+1, item.Name, item.Current, item.Target, item.Risk.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
