package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewlab/reviewlab/internal/application"
	"github.com/reviewlab/reviewlab/internal/domain"
)

func newDemoCmd() *cobra.Command {
	var (
		language string
		output   outputFlags
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an evaluation on built-in sample data",
		Long:  "Build three injected bugs and five review findings for a language and evaluate them with every strategy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			findings, records, err := application.DemoData(language)
			if err != nil {
				return err
			}

			strategies := make([]string, len(domain.AllStrategies))
			for i, s := range domain.AllStrategies {
				strategies[i] = string(s)
			}

			report, err := newEvaluateService().EvaluateData(domain.DefaultConfig(), findings, records, application.EvaluateRequest{
				ReviewTool: application.DemoReviewTool,
				Strategies: strategies,
			})
			if err != nil {
				return fmt.Errorf("demo failed: %w", err)
			}
			return output.render(cmd, report)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "java", "Sample language (go, java, javascript, python)")
	output.register(cmd)

	return cmd
}
