package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reviewlab/reviewlab/internal/adapters/outbound/config"
	"github.com/reviewlab/reviewlab/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		reviewTool string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Generate a " + config.FileName + " configuration file",
		Long:  "Create a " + config.FileName + " with the default strategy order and commented optional settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			dir, err := absDir(path)
			if err != nil {
				return err
			}

			dest := filepath.Join(dir, config.FileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			if err := os.WriteFile(dest, []byte(generateConfig(reviewTool)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&reviewTool, "review-tool", "", "Name of the review tool being evaluated")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing "+config.FileName)

	return cmd
}

func generateConfig(reviewTool string) string {
	if reviewTool == "" {
		reviewTool = domain.DefaultReviewTool
	}

	var b strings.Builder
	b.WriteString("# ReviewLab configuration\n\n")
	fmt.Fprintf(&b, "review_tool: %q\n\n", reviewTool)

	b.WriteString("# Tried in order; a finding or bug matched by an earlier strategy is\n")
	b.WriteString("# not offered to later ones.\n")
	b.WriteString("strategies:\n")
	for _, s := range domain.DefaultStrategies() {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	b.WriteString("#  - breadcrumb_matching\n")
	b.WriteString("#  - fuzzy_matching\n")

	b.WriteString(`
# exclude_paths:
#   - "vendor/**"
#   - "**/generated/**"

# workers: 4

# min_f1: 0.5

# semantic:
#   extra_stop_words: [should, could]
#   split_identifiers: true
`)
	return b.String()
}
