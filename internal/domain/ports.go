package domain

// FindingsLoader reads review findings produced by a review tool.
type FindingsLoader interface {
	Load(path string) ([]Finding, error)
}

// GroundTruthLoader reads the injection log.
type GroundTruthLoader interface {
	Load(path string) ([]GroundTruthRecord, error)
}

// ConfigLoader loads project configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (ProjectConfig, error)
}

// EvaluationHistory persists a summary of every evaluation run.
type EvaluationHistory interface {
	Save(dir string, entry HistoryEntry) error
	Load(dir string) ([]HistoryEntry, error)
}

// BaselineStore keeps one reference evaluation to compare later runs against.
type BaselineStore interface {
	Load(dir string) (*Baseline, error)
	Save(dir string, baseline *Baseline) error
}

// GitInfo reads repository metadata for provenance.
type GitInfo interface {
	CommitHash(path string) (string, error)
}
