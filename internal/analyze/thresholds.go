// Package analyze merges detector signals into a single per-file verdict
// and decides whether a file is residual.
package analyze

// Confidence thresholds. Fixed at build time; all comparisons are
// inclusive (>=) at the threshold unless stated otherwise.
const (
	High    = 0.85
	MedHigh = 0.75
	Med     = 0.65
	MedLow  = 0.50
	Low     = 0.40
	VeryLow = 0.30
)

// conflictPenalty is subtracted from the winning signal when two strong
// detectors disagree on the label.
const conflictPenalty = 0.15

// rareLabelFactor shrinks the confidence of statistically suspicious
// labels before residual determination runs.
const (
	rareLabelFactor = 0.8
	rareMinBatch    = 5
)

// refineBoostFactor multiplies confidence on refinement passes; the
// result is capped at refineBoostCap.
const (
	refineBoostFactor = 1.1
	refineBoostCap    = 0.95
)
