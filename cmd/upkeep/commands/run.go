package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Upgrade the requirements ledger pass by pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := runOptions(cmd)
			opts.MaxPasses, _ = cmd.Flags().GetInt("max-passes")
			opts.NoAdvisor, _ = cmd.Flags().GetBool("no-advisor")
			_, err := c.app.Run(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().Int("max-passes", 0, "Override the maximum number of update passes")
	cmd.Flags().Bool("no-advisor", false, "Run without the LLM advisor")
	return cmd
}
