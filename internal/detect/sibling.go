package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// SiblingPatternDetector matches naming-convention substrings learned
// from already classified files. Longer patterns are more specific and
// win over shorter ones.
type SiblingPatternDetector struct {
	patterns map[string]string
	base
}

// NewSiblingPatternDetector builds a detector from lowercase naming
// patterns mapped to their labels.
func NewSiblingPatternDetector(patterns map[string]string, boost float64) *SiblingPatternDetector {
	return &SiblingPatternDetector{
		patterns: patterns,
		base:     base{boost: boost},
	}
}

// Name returns the detection method identifier.
func (d *SiblingPatternDetector) Name() model.DetectionMethod { return model.MethodSiblingPattern }

// Score returns a signal for the longest matching pattern, if any.
func (d *SiblingPatternDetector) Score(path string) *model.Signal {
	name := strings.ToLower(filepath.Base(path))

	var bestPattern, bestLabel string
	for pattern, label := range d.patterns {
		if !strings.Contains(name, pattern) {
			continue
		}
		if len(pattern) > len(bestPattern) || (len(pattern) == len(bestPattern) && pattern < bestPattern) {
			bestPattern = pattern
			bestLabel = label
		}
	}

	if bestPattern == "" {
		return nil
	}

	confidence := minFloat(0.50+float64(len(bestPattern))*0.02, 0.80)
	return &model.Signal{
		Label:      bestLabel,
		Confidence: d.adjust(confidence),
		Method:     model.MethodSiblingPattern,
		Why:        fmt.Sprintf("matches naming pattern %q", bestPattern),
	}
}
