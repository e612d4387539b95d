// Package model defines the core domain models used throughout the application.
package model

// DetectionMethod identifies which heuristic produced a signal.
type DetectionMethod string

// Detection method constants.
const (
	MethodExtension      DetectionMethod = "extension"
	MethodKeyword        DetectionMethod = "keyword"
	MethodDatePattern    DetectionMethod = "date_pattern"
	MethodSize           DetectionMethod = "size"
	MethodDirContext     DetectionMethod = "directory_context"
	MethodContextual     DetectionMethod = "contextual"
	MethodSiblingPattern DetectionMethod = "sibling_pattern"
	MethodNone           DetectionMethod = "none"
)

// Signal is one detector's opinion about a file. Detectors create a fresh
// Signal per invocation; signals are never mutated after creation.
type Signal struct {
	Label      string
	Method     DetectionMethod
	Why        string
	Confidence float64
}

// FileResult is the analyzer's single verdict for a file. A refinement pass
// creates a new FileResult for the same path; it never mutates the prior one.
type FileResult struct {
	Path           string
	Label          string
	Method         DetectionMethod
	Why            string
	ResidualReason string
	Confidence     float64
	IsResidual     bool
}
