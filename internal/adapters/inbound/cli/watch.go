package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/reviewlab/reviewlab/internal/application"
	"github.com/reviewlab/reviewlab/internal/domain/matching"
	"github.com/reviewlab/reviewlab/internal/logging"
)

// watchDebounce coalesces the burst of events an editor or tool emits for
// one save.
const watchDebounce = 200 * time.Millisecond

func newWatchCmd() *cobra.Command {
	var (
		findingsPath    string
		groundTruthPath string
		projectDir      string
		reviewTool      string
		strategies      string
		summary         bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate whenever the findings or ground truth change",
		Long:  "Evaluate once, then again every time either input file is written, until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absDir(projectDir)
			if err != nil {
				return err
			}
			req := application.EvaluateRequest{
				FindingsPath:    findingsPath,
				GroundTruthPath: groundTruthPath,
				ProjectDir:      dir,
				ReviewTool:      reviewTool,
				Strategies:      matching.SplitStrategyList(strategies),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc := newEvaluateService()
			out := cmd.OutOrStdout()
			return watchInputs(ctx, req, func() {
				report, err := svc.Evaluate(req)
				if err != nil {
					fmt.Fprintf(out, "[%s] evaluation failed: %v\n", time.Now().Format(time.TimeOnly), err)
					return
				}
				printWatchLine(out, report, summary)
			})
		},
	}

	cmd.Flags().StringVarP(&findingsPath, "findings", "f", "", "Findings JSON file to watch")
	cmd.Flags().StringVarP(&groundTruthPath, "ground-truth", "g", "", "Ground-truth JSONL file, or a directory of .jsonl files, to watch")
	cmd.Flags().StringVar(&projectDir, "dir", ".", "Directory holding .reviewlab.yaml")
	cmd.Flags().StringVarP(&reviewTool, "review-tool", "t", "", "Name of the review tool")
	cmd.Flags().StringVarP(&strategies, "strategies", "s", "", "Comma-separated strategies in priority order")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print the full summary report on every run")
	_ = cmd.MarkFlagRequired("findings")
	_ = cmd.MarkFlagRequired("ground-truth")

	return cmd
}

// watchInputs runs evaluate once and then after every settled change to
// either input. Parent directories of input files are watched so files
// replaced by rename are still seen; a ground-truth directory is watched
// recursively for .jsonl changes. It returns when ctx is done.
func watchInputs(ctx context.Context, req application.EvaluateRequest, evaluate func()) error {
	logger := logging.New("watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	set := &watchSet{files: map[string]bool{}}
	dirs := map[string]bool{}
	for _, p := range []string{req.FindingsPath, req.GroundTruthPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			set.trees = append(set.trees, abs)
			if err := addTree(w, abs); err != nil {
				return err
			}
			continue
		}
		set.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	evaluate()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if ev.Has(fsnotify.Create) && set.inTree(name) {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					if err := addTree(w, name); err != nil {
						logger.Warn("watch error", "error", err)
					}
					continue
				}
			}
			if !set.matches(name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			logger.Debug("input changed", "file", ev.Name, "op", ev.Op.String())
			settle = time.After(watchDebounce)
		case <-settle:
			settle = nil
			evaluate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// watchSet decides which filesystem events concern the inputs.
type watchSet struct {
	files map[string]bool
	trees []string
}

func (s *watchSet) inTree(name string) bool {
	for _, root := range s.trees {
		if rel, err := filepath.Rel(root, name); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *watchSet) matches(name string) bool {
	if s.files[name] {
		return true
	}
	return strings.HasSuffix(name, ".jsonl") && s.inTree(name)
}

// addTree watches root and every directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func printWatchLine(out io.Writer, report *application.EvaluateReport, summary bool) {
	m := report.Result.Metrics
	fmt.Fprintf(out, "[%s] F1 %.3f  precision %.3f  recall %.3f  (%d/%d bugs found, %d false positives)\n",
		report.Result.Timestamp.Format(time.TimeOnly),
		m.F1Score, m.Precision, m.Recall,
		m.TruePositives, m.TotalGroundTruth, m.FalsePositives,
	)
	if summary {
		fmt.Fprintln(out, matching.SummaryReport(report.Result))
	}
}
