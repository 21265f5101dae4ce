package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/reviewlab/reviewlab/internal/adapters/outbound/baseline"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/config"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/findings"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/gitinfo"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/groundtruth"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/history"
	"github.com/reviewlab/reviewlab/internal/application"
	"github.com/reviewlab/reviewlab/internal/domain"
)

func newEvaluateService() *application.EvaluateService {
	return application.NewEvaluateService(
		findings.New(),
		groundtruth.New(),
		config.New(),
		history.New(),
		baseline.New(),
		gitinfo.New(),
	)
}

func absDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func badgeURL(f1 float64) string {
	return fmt.Sprintf("https://img.shields.io/badge/reviewlab%%20F1-%.2f-%s", f1, domain.BadgeColor(f1))
}
