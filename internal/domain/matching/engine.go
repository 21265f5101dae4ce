package matching

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// ConfidenceFloor is the confidence a candidate must strictly exceed to be
// accepted as a match.
const ConfidenceFloor = 0.5

// Engine matches review findings to ground truth and scores the result.
type Engine struct {
	matchers map[domain.Strategy]MatchFunc
	workers  int
	now      func() time.Time
	logger   *slog.Logger

	stopWords        []string
	splitIdentifiers bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers scores candidate pairs on n goroutines per strategy pass.
// Assignment is still resolved serially in input order, so results are
// identical to a sequential run. n <= 1 disables parallel scoring.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithClock overrides the time source used for session IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStopWords extends the semantic matcher's stop-word list.
func WithStopWords(words ...string) Option {
	return func(e *Engine) { e.stopWords = append(e.stopWords, words...) }
}

// WithIdentifierSplitting makes the semantic matcher break camelCase and
// snake_case identifiers into words before comparing.
func WithIdentifierSplitting(enabled bool) Option {
	return func(e *Engine) { e.splitIdentifiers = enabled }
}

// WithLogger sets the logger used for skipped strategies.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an Engine with all five strategies registered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		matchers: map[domain.Strategy]MatchFunc{
			domain.StrategyExactOverlap:       ExactOverlap,
			domain.StrategyLineRangeOverlap:   LineRangeOverlap,
			domain.StrategySemanticSimilarity: SemanticSimilarity(defaultExtractor),
			domain.StrategyBreadcrumb:         Breadcrumb,
			domain.StrategyFuzzy:              Fuzzy,
		},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.stopWords) > 0 || e.splitIdentifiers {
		kw := NewKeywordExtractor(e.stopWords...)
		if e.splitIdentifiers {
			kw = kw.SplittingIdentifiers()
		}
		e.matchers[domain.StrategySemanticSimilarity] = SemanticSimilarity(kw)
	}
	return e
}

// consumed tracks which findings and records have already been matched
// during one Evaluate call.
type consumed struct {
	findings    map[string]struct{}
	groundTruth map[string]struct{}
}

func (c *consumed) finding(id string) bool {
	_, ok := c.findings[id]
	return ok
}

func (c *consumed) record(id string) bool {
	_, ok := c.groundTruth[id]
	return ok
}

func (c *consumed) take(fid, gid string) {
	c.findings[fid] = struct{}{}
	c.groundTruth[gid] = struct{}{}
}

// Evaluate matches findings to ground truth using strategies in priority
// order. Each strategy only sees findings and records that no earlier
// match consumed; within a strategy, the first ground-truth record (in
// input order) whose candidate clears ConfidenceFloor wins. Unknown
// strategies are skipped; if none remain, DefaultStrategies is used.
//
// Evaluate fails with domain.ErrInvalidInput when either collection is empty
// or repeats an ID.
func (e *Engine) Evaluate(
	findings []domain.Finding,
	groundTruth []domain.GroundTruthRecord,
	reviewTool string,
	strategies []domain.Strategy,
) (*domain.EvaluationResult, error) {
	if len(findings) == 0 {
		return nil, fmt.Errorf("%w: no review findings supplied", domain.ErrInvalidInput)
	}
	if len(groundTruth) == 0 {
		return nil, fmt.Errorf("%w: no ground truth entries supplied", domain.ErrInvalidInput)
	}
	if id, dup := firstDuplicate(len(findings), func(i int) string { return findings[i].ID }); dup {
		return nil, fmt.Errorf("%w: duplicate finding id %q", domain.ErrInvalidInput, id)
	}
	if id, dup := firstDuplicate(len(groundTruth), func(i int) string { return groundTruth[i].ID }); dup {
		return nil, fmt.Errorf("%w: duplicate ground truth id %q", domain.ErrInvalidInput, id)
	}
	strategies = e.runnable(strategies)

	state := &consumed{
		findings:    make(map[string]struct{}, len(findings)),
		groundTruth: make(map[string]struct{}, len(groundTruth)),
	}

	var matches []domain.MatchCandidate
	used := make([]string, 0, len(strategies))
	for _, s := range strategies {
		used = append(used, string(s))
		matches = append(matches, e.runPass(e.matchers[s], findings, groundTruth, state)...)
	}

	return e.assemble(findings, groundTruth, reviewTool, matches, used, state), nil
}

// firstDuplicate reports the first id that appears twice among n items.
func firstDuplicate(n int, id func(int) string) (string, bool) {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := id(i)
		if _, ok := seen[k]; ok {
			return k, true
		}
		seen[k] = struct{}{}
	}
	return "", false
}

// runnable drops strategies the engine does not know, logging each, and
// falls back to the default order when nothing is left.
func (e *Engine) runnable(strategies []domain.Strategy) []domain.Strategy {
	out := make([]domain.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if _, ok := e.matchers[s]; !ok {
			e.logger.Warn("skipping unknown strategy", "strategy", string(s))
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return domain.DefaultStrategies()
	}
	return out
}

// runPass applies one strategy across all open pairs.
func (e *Engine) runPass(
	match MatchFunc,
	findings []domain.Finding,
	groundTruth []domain.GroundTruthRecord,
	state *consumed,
) []domain.MatchCandidate {
	score := func(fi, gi int) (domain.MatchCandidate, bool) {
		return match(findings[fi], groundTruth[gi])
	}
	if e.workers > 1 {
		score = e.precompute(match, findings, groundTruth, state)
	}

	var out []domain.MatchCandidate
	for fi, f := range findings {
		if state.finding(f.ID) {
			continue
		}
		for gi, gt := range groundTruth {
			if state.record(gt.ID) {
				continue
			}
			c, ok := score(fi, gi)
			if ok && c.Confidence > ConfidenceFloor {
				out = append(out, c)
				state.take(f.ID, gt.ID)
				break
			}
		}
	}
	return out
}

// precompute scores every pair that is open at the start of a pass on a
// bounded pool of goroutines and returns a lookup over the results. Pairs
// closed before the pass are never scored; pairs closed during the pass are
// skipped by the serial resolver.
func (e *Engine) precompute(
	match MatchFunc,
	findings []domain.Finding,
	groundTruth []domain.GroundTruthRecord,
	state *consumed,
) func(fi, gi int) (domain.MatchCandidate, bool) {
	grid := make([][]*domain.MatchCandidate, len(findings))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for fi, f := range findings {
		if state.finding(f.ID) {
			continue
		}
		row := make([]*domain.MatchCandidate, len(groundTruth))
		grid[fi] = row
		g.Go(func() error {
			for gi, gt := range groundTruth {
				if state.record(gt.ID) {
					continue
				}
				if c, ok := match(f, gt); ok {
					row[gi] = &c
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return func(fi, gi int) (domain.MatchCandidate, bool) {
		if grid[fi] == nil || grid[fi][gi] == nil {
			return domain.MatchCandidate{}, false
		}
		return *grid[fi][gi], true
	}
}

func (e *Engine) assemble(
	findings []domain.Finding,
	groundTruth []domain.GroundTruthRecord,
	reviewTool string,
	matches []domain.MatchCandidate,
	used []string,
	state *consumed,
) *domain.EvaluationResult {
	var unmatchedFindings []domain.Finding
	for _, f := range findings {
		if !state.finding(f.ID) {
			unmatchedFindings = append(unmatchedFindings, f)
		}
	}
	var unmatchedGT []domain.GroundTruthRecord
	for _, gt := range groundTruth {
		if !state.record(gt.ID) {
			unmatchedGT = append(unmatchedGT, gt)
		}
	}

	metrics := domain.ComputeMetrics(len(findings), len(groundTruth), len(matches))
	metrics.MatchBreakdown = make(map[string]int, len(used))
	for _, m := range matches {
		metrics.MatchBreakdown[string(m.Strategy)]++
	}

	if reviewTool == "" {
		reviewTool = domain.DefaultReviewTool
	}

	now := e.now()
	return &domain.EvaluationResult{
		SessionID:            domain.SessionIDFor(now),
		ReviewTool:           reviewTool,
		Timestamp:            now,
		Metrics:              metrics,
		Matches:              matches,
		UnmatchedFindings:    unmatchedFindings,
		UnmatchedGroundTruth: unmatchedGT,
		Metadata: map[string]any{
			"strategies_used": used,
			"total_matches":   len(matches),
		},
	}
}
