// Package detect implements the file signal detectors. Each detector
// inspects one file and optionally emits a classification signal; the
// analyzer merges signals into a single verdict.
package detect

import (
	"github.com/filesift/filesift/internal/model"
)

// Detector is the contract every heuristic implements. Score must never
// panic for a well-formed path; on I/O error (permission denied, file
// vanished mid-scan) it returns nil rather than propagating.
type Detector interface {
	Name() model.DetectionMethod
	Score(path string) *model.Signal
}

// confidenceCap bounds any detector-level confidence adjustment.
const confidenceCap = 0.95

// base carries the optional iteration-based confidence offset that is set
// once per pass. Detectors are otherwise stateless across files.
type base struct {
	boost float64
}

func (b base) adjust(confidence float64) float64 {
	c := confidence + b.boost
	if c > confidenceCap {
		return confidenceCap
	}
	return c
}

// Defaults returns the default detector stack. Order matters: when the
// analyzer sees equal scores, the earlier-listed detector wins.
func Defaults() []Detector {
	return DefaultsWithBoost(0)
}

// DefaultsWithBoost returns the default stack with a per-pass confidence
// offset applied to every detector.
func DefaultsWithBoost(boost float64) []Detector {
	return []Detector{
		NewExtensionDetector(boost),
		NewKeywordDetector(boost),
		NewDirContextDetector(boost),
		NewDatePatternDetector(boost),
		NewSizeDetector(boost),
	}
}
