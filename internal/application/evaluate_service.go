package application

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/reviewlab/reviewlab/internal/domain"
	"github.com/reviewlab/reviewlab/internal/domain/matching"
	"github.com/reviewlab/reviewlab/internal/logging"
)

// EvaluateRequest describes one evaluation run. Empty overrides fall back
// to the project config.
type EvaluateRequest struct {
	FindingsPath    string
	GroundTruthPath string
	ProjectDir      string

	ReviewTool string
	Strategies []string
	Workers    int

	SaveHistory     bool
	SaveBaseline    bool
	CompareBaseline bool
}

// EvaluateReport is everything an evaluation run produced.
type EvaluateReport struct {
	Result           *domain.EvaluationResult `json:"result"`
	Analysis         domain.Analysis          `json:"analysis"`
	Fingerprint      string                   `json:"ground_truth_fingerprint"`
	ExcludedFindings int                      `json:"excluded_findings,omitempty"`
	ExcludedRecords  int                      `json:"excluded_ground_truth,omitempty"`
	Baseline         *domain.BaselineDelta    `json:"baseline,omitempty"`
	MinF1            *float64                 `json:"min_f1,omitempty"`
}

// EvaluateService orchestrates the evaluation pipeline:
// config → load → exclude → match → provenance → history/baseline.
type EvaluateService struct {
	findings     domain.FindingsLoader
	groundTruth  domain.GroundTruthLoader
	configLoader domain.ConfigLoader
	history      domain.EvaluationHistory
	baselines    domain.BaselineStore
	git          domain.GitInfo

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

func NewEvaluateService(
	findings domain.FindingsLoader,
	groundTruth domain.GroundTruthLoader,
	configLoader domain.ConfigLoader,
	history domain.EvaluationHistory,
	baselines domain.BaselineStore,
	git domain.GitInfo,
) *EvaluateService {
	return &EvaluateService{
		findings:     findings,
		groundTruth:  groundTruth,
		configLoader: configLoader,
		history:      history,
		baselines:    baselines,
		git:          git,
		now:          time.Now,
		newID:        uuid.NewString,
		logger:       logging.New("evaluate"),
	}
}

// WithClock replaces the time source; used by tests.
func (s *EvaluateService) WithClock(now func() time.Time) *EvaluateService {
	s.now = now
	return s
}

// Config loads the project config for dir.
func (s *EvaluateService) Config(dir string) (domain.ProjectConfig, error) {
	cfg, err := s.configLoader.Load(dir)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Evaluate loads both input files and scores the findings.
func (s *EvaluateService) Evaluate(req EvaluateRequest) (*EvaluateReport, error) {
	cfg, err := s.Config(req.ProjectDir)
	if err != nil {
		return nil, err
	}

	findings, err := s.findings.Load(req.FindingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading findings: %w", err)
	}
	records, err := s.groundTruth.Load(req.GroundTruthPath)
	if err != nil {
		return nil, fmt.Errorf("loading ground truth: %w", err)
	}

	return s.EvaluateData(cfg, findings, records, req)
}

// EvaluateData scores already-loaded inputs under cfg.
func (s *EvaluateService) EvaluateData(
	cfg domain.ProjectConfig,
	findings []domain.Finding,
	records []domain.GroundTruthRecord,
	req EvaluateRequest,
) (*EvaluateReport, error) {
	report := &EvaluateReport{MinF1: cfg.MinF1}

	keptFindings := excludeFindings(findings, cfg.ExcludePaths)
	keptRecords := excludeRecords(records, cfg.ExcludePaths)
	report.ExcludedFindings = len(findings) - len(keptFindings)
	report.ExcludedRecords = len(records) - len(keptRecords)
	if report.ExcludedFindings > 0 || report.ExcludedRecords > 0 {
		s.logger.Info("excluded paths",
			"findings", report.ExcludedFindings, "ground_truth", report.ExcludedRecords)
	}

	tool := req.ReviewTool
	if tool == "" {
		tool = cfg.EffectiveReviewTool()
	}
	names := req.Strategies
	if len(names) == 0 {
		names = cfg.Strategies
	}
	strategies := matching.ResolveStrategies(names, s.logger)

	workers := req.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	engine := matching.NewEngine(
		matching.WithWorkers(workers),
		matching.WithStopWords(cfg.Semantic.ExtraStopWords...),
		matching.WithIdentifierSplitting(cfg.Semantic.SplitIdentifiers),
		matching.WithClock(s.now),
		matching.WithLogger(logging.New("matching")),
	)

	result, err := engine.Evaluate(keptFindings, keptRecords, tool, strategies)
	if err != nil {
		return nil, fmt.Errorf("evaluating: %w", err)
	}

	report.Fingerprint = Fingerprint(keptRecords)
	result.Metadata["ground_truth_fingerprint"] = report.Fingerprint
	commit := s.commitHash(req.ProjectDir)
	if commit != "" {
		result.Metadata["commit_hash"] = commit
	}
	report.Result = result
	report.Analysis = domain.Analyze(result)

	if req.CompareBaseline {
		if err := s.compareBaseline(req.ProjectDir, report); err != nil {
			return nil, err
		}
	}
	if req.SaveBaseline {
		b := &domain.Baseline{
			SessionID:   result.SessionID,
			ReviewTool:  result.ReviewTool,
			Fingerprint: report.Fingerprint,
			Metrics:     result.Metrics,
		}
		if err := s.baselines.Save(req.ProjectDir, b); err != nil {
			return nil, fmt.Errorf("saving baseline: %w", err)
		}
	}
	if req.SaveHistory {
		if err := s.history.Save(req.ProjectDir, s.historyEntry(result, commit, report.Fingerprint)); err != nil {
			return nil, fmt.Errorf("saving history: %w", err)
		}
	}

	return report, nil
}

// History returns saved history entries for dir, oldest first.
func (s *EvaluateService) History(dir string) ([]domain.HistoryEntry, error) {
	entries, err := s.history.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

func (s *EvaluateService) compareBaseline(dir string, report *EvaluateReport) error {
	b, err := s.baselines.Load(dir)
	if err != nil {
		return fmt.Errorf("loading baseline: %w", err)
	}
	if b == nil {
		s.logger.Warn("no baseline saved, nothing to compare against")
		return nil
	}
	delta := domain.CompareToBaseline(b, report.Result.Metrics, report.Fingerprint)
	if !delta.SameGroundTruth {
		s.logger.Warn("ground truth differs from baseline",
			"baseline", b.Fingerprint, "current", report.Fingerprint)
	}
	report.Baseline = &delta
	return nil
}

func (s *EvaluateService) commitHash(dir string) string {
	if s.git == nil || dir == "" {
		return ""
	}
	hash, err := s.git.CommitHash(dir)
	if err != nil {
		s.logger.Debug("no commit hash", "dir", dir, "error", err)
		return ""
	}
	return hash
}

func (s *EvaluateService) historyEntry(r *domain.EvaluationResult, commit, fingerprint string) domain.HistoryEntry {
	m := r.Metrics
	return domain.HistoryEntry{
		ID:          s.newID(),
		SessionID:   r.SessionID,
		Timestamp:   r.Timestamp.UTC().Format(time.RFC3339),
		ReviewTool:  r.ReviewTool,
		CommitHash:  commit,
		Fingerprint: fingerprint,
		Precision:   m.Precision,
		Recall:      m.Recall,
		F1Score:     m.F1Score,
		Accuracy:    m.Accuracy,
	}
}

// MeetsFloor reports whether the run clears minF1. A nil floor always passes.
func (r *EvaluateReport) MeetsFloor(minF1 *float64) bool {
	if minF1 == nil {
		minF1 = r.MinF1
	}
	if minF1 == nil {
		return true
	}
	return r.Result.Metrics.F1Score >= *minF1
}

func excluded(path string, patterns []string) bool {
	p := filepath.ToSlash(path)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func excludeFindings(findings []domain.Finding, patterns []string) []domain.Finding {
	if len(patterns) == 0 {
		return findings
	}
	out := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		if !excluded(f.FilePath, patterns) {
			out = append(out, f)
		}
	}
	return out
}

func excludeRecords(records []domain.GroundTruthRecord, patterns []string) []domain.GroundTruthRecord {
	if len(patterns) == 0 {
		return records
	}
	out := make([]domain.GroundTruthRecord, 0, len(records))
	for _, r := range records {
		if !excluded(r.FilePath, patterns) {
			out = append(out, r)
		}
	}
	return out
}
