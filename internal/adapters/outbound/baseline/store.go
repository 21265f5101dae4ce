package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// Store is a file-based implementation of domain.BaselineStore.
type Store struct{}

// New creates a new file-based baseline store.
func New() *Store {
	return &Store{}
}

// Load reads the saved baseline. Returns (nil, nil) if none exists.
func (s *Store) Load(dir string) (*domain.Baseline, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var b domain.Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline: %w", err)
	}
	return &b, nil
}

// Save overwrites the baseline, creating directories as needed.
func (s *Store) Save(dir string, b *domain.Baseline) error {
	if err := os.MkdirAll(filepath.Dir(Path(dir)), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(dir), data, 0644)
}

// Clear removes the baseline for dir, if any.
func (s *Store) Clear(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path is where the baseline for dir lives.
func Path(dir string) string {
	return filepath.Join(dir, ".reviewlab", "baseline.json")
}
