package domain

// HistoryEntry is the persisted summary of one evaluation.
type HistoryEntry struct {
	ID          string  `json:"id"`
	SessionID   string  `json:"session_id"`
	Timestamp   string  `json:"timestamp"`
	ReviewTool  string  `json:"review_tool"`
	CommitHash  string  `json:"commit_hash,omitempty"`
	Fingerprint string  `json:"fingerprint,omitempty"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1Score     float64 `json:"f1_score"`
	Accuracy    float64 `json:"accuracy"`
}

// Baseline is a saved reference evaluation.
type Baseline struct {
	SessionID   string            `json:"session_id"`
	ReviewTool  string            `json:"review_tool"`
	Fingerprint string            `json:"fingerprint"`
	Metrics     EvaluationMetrics `json:"metrics"`
}

// BaselineDelta is the change in metrics between a baseline and a new run.
type BaselineDelta struct {
	Baseline        *Baseline `json:"baseline"`
	Precision       float64   `json:"precision"`
	Recall          float64   `json:"recall"`
	F1Score         float64   `json:"f1_score"`
	Accuracy        float64   `json:"accuracy"`
	SameGroundTruth bool      `json:"same_ground_truth"`
}

// CompareToBaseline computes current minus baseline for each ratio.
func CompareToBaseline(b *Baseline, m EvaluationMetrics, fingerprint string) BaselineDelta {
	return BaselineDelta{
		Baseline:        b,
		Precision:       m.Precision - b.Metrics.Precision,
		Recall:          m.Recall - b.Metrics.Recall,
		F1Score:         m.F1Score - b.Metrics.F1Score,
		Accuracy:        m.Accuracy - b.Metrics.Accuracy,
		SameGroundTruth: b.Fingerprint == fingerprint,
	}
}
