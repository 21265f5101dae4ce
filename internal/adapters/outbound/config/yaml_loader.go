package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".reviewlab.yaml"

// Environment variables that override file values.
const (
	EnvReviewTool = "REVIEWLAB_REVIEW_TOOL"
	EnvStrategies = "REVIEWLAB_STRATEGIES"
	EnvWorkers    = "REVIEWLAB_WORKERS"
)

// YAMLLoader implements domain.ConfigLoader by reading .reviewlab.yaml and
// then applying REVIEWLAB_* environment overrides.
type YAMLLoader struct {
	getenv func(string) string
}

// New creates a YAMLLoader reading the process environment.
func New() *YAMLLoader { return &YAMLLoader{getenv: os.Getenv} }

// NewWithEnv creates a YAMLLoader with a custom environment lookup.
func NewWithEnv(getenv func(string) string) *YAMLLoader { return &YAMLLoader{getenv: getenv} }

// Load reads .reviewlab.yaml from dir.
// Returns DefaultConfig (plus env overrides) if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.ProjectConfig, error) {
	cfg, err := readFile(dir)
	if err != nil {
		return domain.ProjectConfig{}, err
	}

	if err := l.applyEnv(&cfg); err != nil {
		return domain.ProjectConfig{}, err
	}

	return cfg, nil
}

func readFile(dir string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	for _, p := range cfg.ExcludePaths {
		if !doublestar.ValidatePattern(p) {
			return domain.ProjectConfig{}, fmt.Errorf("invalid %s: bad glob %q in exclude_paths", FileName, p)
		}
	}

	return cfg, nil
}

// applyEnv overlays environment values. Strategy names from the environment
// are not validated here; they go through the lenient CLI parser.
func (l *YAMLLoader) applyEnv(cfg *domain.ProjectConfig) error {
	if v := l.getenv(EnvReviewTool); v != "" {
		cfg.ReviewTool = v
	}
	if v := l.getenv(EnvStrategies); v != "" {
		var names []string
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		cfg.Strategies = names
	}
	if v := l.getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer (got %q)", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	return nil
}
