package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewlab/reviewlab/internal/adapters/outbound/tui"
	"github.com/reviewlab/reviewlab/internal/application"
	"github.com/reviewlab/reviewlab/internal/domain"
	"github.com/reviewlab/reviewlab/internal/domain/matching"
)

type outputFlags struct {
	json    bool
	summary bool
	badge   bool
	verbose bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Output the evaluation result as JSON")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "Output the plain-text summary report")
	cmd.Flags().BoolVar(&o.badge, "badge", false, "Output a shields.io badge URL for F1")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "List every match, false positive and missed bug")
}

func (o *outputFlags) render(cmd *cobra.Command, report *application.EvaluateReport) error {
	out := cmd.OutOrStdout()
	switch {
	case o.json:
		return writeJSON(out, report.Result)
	case o.summary:
		fmt.Fprintln(out, matching.SummaryReport(report.Result))
	case o.badge:
		fmt.Fprintln(out, badgeURL(report.Result.Metrics.F1Score))
	default:
		fmt.Fprint(out, tui.RenderEvaluation(report.Result, report.Analysis, o.verbose))
	}
	return nil
}

func printReport(cmd *cobra.Command, report *application.EvaluateReport, output outputFlags, compareBaseline, saveBaseline bool) error {
	if err := output.render(cmd, report); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if compareBaseline && !output.json {
		if report.Baseline != nil {
			fmt.Fprint(out, tui.RenderBaselineDelta(*report.Baseline))
		} else {
			fmt.Fprintln(out, "No baseline saved yet (run with --save-baseline).")
		}
	}
	if saveBaseline && !output.json {
		fmt.Fprintf(out, "Baseline saved (%s).\n", report.Result.SessionID)
	}
	return nil
}

func newEvaluateCmd() *cobra.Command {
	var (
		findingsPath    string
		groundTruthPath string
		projectDir      string
		reviewTool      string
		strategies      string
		workers         int
		ciMode          bool
		minF1           float64
		showHistory     bool
		noHistory       bool
		saveBaseline    bool
		compareBaseline bool
		output          outputFlags
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate review findings against injected-bug ground truth",
		Long:  "Match a review tool's findings to the ground-truth injection log and report precision, recall, F1 and accuracy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absDir(projectDir)
			if err != nil {
				return err
			}

			svc := newEvaluateService()
			report, err := svc.Evaluate(application.EvaluateRequest{
				FindingsPath:    findingsPath,
				GroundTruthPath: groundTruthPath,
				ProjectDir:      dir,
				ReviewTool:      reviewTool,
				Strategies:      matching.SplitStrategyList(strategies),
				Workers:         workers,
				SaveHistory:     !noHistory,
				SaveBaseline:    saveBaseline,
				CompareBaseline: compareBaseline,
			})
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			if showHistory {
				entries, err := svc.History(dir)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			} else if err := printReport(cmd, report, output, compareBaseline, saveBaseline); err != nil {
				return err
			}

			if ciMode {
				var floor *float64
				if cmd.Flags().Changed("min-f1") {
					floor = &minF1
				}
				if !report.MeetsFloor(floor) {
					if floor == nil {
						floor = report.MinF1
					}
					return fmt.Errorf("F1 %.3f is below minimum %.3f", report.Result.Metrics.F1Score, *floor)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&findingsPath, "findings", "f", "", "Findings JSON file produced by the review tool")
	cmd.Flags().StringVarP(&groundTruthPath, "ground-truth", "g", "", "Ground-truth JSONL injection log")
	cmd.Flags().StringVar(&projectDir, "dir", ".", "Directory holding .reviewlab.yaml and .reviewlab/ state")
	cmd.Flags().StringVarP(&reviewTool, "review-tool", "t", "", "Name of the review tool (default from config, else \""+domain.DefaultReviewTool+"\")")
	cmd.Flags().StringVarP(&strategies, "strategies", "s", "", "Comma-separated strategies in priority order")
	cmd.Flags().IntVar(&workers, "workers", 0, "Goroutines used to score candidate pairs (0 uses config)")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if F1 is below --min-f1 or the configured min_f1")
	cmd.Flags().Float64Var(&minF1, "min-f1", 0, "Minimum F1 for CI mode")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show evaluation history")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in history")
	cmd.Flags().BoolVar(&saveBaseline, "save-baseline", false, "Save this run as the baseline")
	cmd.Flags().BoolVar(&compareBaseline, "compare-baseline", false, "Compare this run with the saved baseline")
	output.register(cmd)
	_ = cmd.MarkFlagRequired("findings")
	_ = cmd.MarkFlagRequired("ground-truth")

	return cmd
}
