package application

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// Fingerprint identifies a ground-truth set independent of record order.
// Only the fields matching depends on are hashed.
func Fingerprint(records []domain.GroundTruthRecord) string {
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = strings.Join([]string{
			r.ID,
			r.FilePath,
			strconv.Itoa(r.LineNumber),
			r.BugType,
			r.Description,
		}, "\x00")
	}
	sort.Strings(keys)

	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.WriteString("\n")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
