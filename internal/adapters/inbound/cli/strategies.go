package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewlab/reviewlab/internal/domain/matching"
)

func newStrategiesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List matching strategies in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := matching.Catalog()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), catalog)
			}
			for i, s := range catalog {
				mark := ""
				if s.Default {
					mark = "  (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %-20s %s%s\n", i+1, s.Name, s.Description, mark)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output strategies as JSON")

	return cmd
}
