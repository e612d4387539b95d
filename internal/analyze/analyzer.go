package analyze

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/filesift/filesift/internal/detect"
	"github.com/filesift/filesift/internal/model"
)

// methodPriority weights confidence by detector trustworthiness when
// picking the winning signal. Extension evidence is strongest, size
// weakest.
var methodPriority = map[model.DetectionMethod]float64{
	model.MethodExtension:      1.0,
	model.MethodKeyword:        0.9,
	model.MethodContextual:     0.85,
	model.MethodSiblingPattern: 0.8,
	model.MethodDirContext:     0.75,
	model.MethodDatePattern:    0.5,
	model.MethodSize:           0.3,
}

const defaultMethodPriority = 0.5

// genericLabels never count as a confident classification.
var genericLabels = map[string]bool{
	"":              true,
	"misc":          true,
	"unknown":       true,
	"uncategorized": true,
}

// weakGenericLabels trigger the medium-low residual rule.
var weakGenericLabels = map[string]bool{
	"misc":        true,
	"dated_files": true,
	"empty_files": true,
}

// ambiguousNameParts mark filenames that need more confidence before
// they can be trusted.
var ambiguousNameParts = []string{
	"temp", "tmp", "copy", "backup", "old", "new",
	"test", "sample", "example", "untitled", "document",
}

// Analyzer collects per-file signals and finalizes them as a batch, so
// that batch-wide statistics (rare labels) can inform each verdict.
type Analyzer struct {
	detectors []detect.Detector
	pending   []pathSignals
}

type pathSignals struct {
	path    string
	signals []model.Signal
}

// New creates an analyzer over the given detector stack. A nil stack
// uses the defaults.
func New(detectors []detect.Detector) *Analyzer {
	if detectors == nil {
		detectors = detect.Defaults()
	}
	return &Analyzer{detectors: detectors}
}

// Add runs every detector over one file and records the signals. Detector
// I/O failures surface as missing signals, never as errors.
func (a *Analyzer) Add(path string) {
	var signals []model.Signal
	for _, d := range a.detectors {
		if s := d.Score(path); s != nil {
			signals = append(signals, *s)
		}
	}
	a.pending = append(a.pending, pathSignals{path: path, signals: signals})
}

// Results finalizes the batch for the given pass number and returns one
// FileResult per added path, in insertion order. The analyzer can be
// reused afterward; pending state is cleared.
func (a *Analyzer) Results(pass int) []model.FileResult {
	pending := a.pending
	a.pending = nil

	// First pass over the batch: count winning labels so rare ones can
	// be penalized.
	winners := make([]model.Signal, len(pending))
	labelCounts := make(map[string]int)
	for i, ps := range pending {
		winners[i] = pickSignal(ps.signals)
		if len(ps.signals) > 0 {
			labelCounts[winners[i].Label]++
		}
	}
	rare := rareLabels(labelCounts, len(pending))

	results := make([]model.FileResult, 0, len(pending))
	for i, ps := range pending {
		if len(ps.signals) == 0 {
			results = append(results, model.FileResult{
				Path:           ps.path,
				Method:         model.MethodNone,
				Why:            "no detector matched",
				IsResidual:     true,
				ResidualReason: "no matching detector",
			})
			continue
		}

		best := winners[i]

		if rare[best.Label] && best.Confidence < High {
			best.Confidence *= rareLabelFactor
			best.Why += " (rare category)"
		}

		isResidual, reason := determineResidual(best.Label, best.Confidence, best.Method, ps.path)

		if pass >= 2 && !isResidual && best.Confidence >= MedLow {
			best.Confidence = minFloat(best.Confidence*refineBoostFactor, refineBoostCap)
			best.Why += fmt.Sprintf(" (pass %d)", pass)
		}

		results = append(results, model.FileResult{
			Path:           ps.path,
			Label:          best.Label,
			Confidence:     best.Confidence,
			Method:         best.Method,
			Why:            best.Why,
			IsResidual:     isResidual,
			ResidualReason: reason,
		})
	}

	return results
}

// AnalyzeAll is a convenience wrapper for callers that do not need
// incremental progress reporting.
func (a *Analyzer) AnalyzeAll(paths []string, pass int) []model.FileResult {
	for _, p := range paths {
		a.Add(p)
	}
	return a.Results(pass)
}

// pickSignal selects the best signal by priority-weighted confidence,
// breaking ties toward longer, more specific explanations. When two or
// more strong signals disagree on the label, the winner is penalized and
// annotated.
func pickSignal(signals []model.Signal) model.Signal {
	if len(signals) == 0 {
		return model.Signal{Method: model.MethodNone, Why: "no detector matched"}
	}

	strong := make([]model.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Confidence >= VeryLow {
			strong = append(strong, s)
		}
	}
	if len(strong) == 0 {
		strong = signals
	}

	highLabels := make(map[string]bool)
	for _, s := range strong {
		if s.Confidence >= MedHigh {
			highLabels[s.Label] = true
		}
	}
	penalty := 0.0
	if len(highLabels) > 1 {
		penalty = conflictPenalty
	}

	priority := func(m model.DetectionMethod) float64 {
		if p, ok := methodPriority[m]; ok {
			return p
		}
		return defaultMethodPriority
	}

	sort.SliceStable(strong, func(i, j int) bool {
		si := (strong[i].Confidence - penalty) * priority(strong[i].Method)
		sj := (strong[j].Confidence - penalty) * priority(strong[j].Method)
		if si != sj {
			return si > sj
		}
		return len(strong[i].Why) > len(strong[j].Why)
	})

	best := strong[0]
	if penalty > 0 {
		best.Confidence = maxFloat(best.Confidence-penalty, VeryLow)
		best.Why += " (multiple classifications detected)"
	}
	return best
}

// determineResidual applies the residual policy and returns the verdict
// with a joined, human-readable reason string.
func determineResidual(label string, confidence float64, method model.DetectionMethod, path string) (bool, string) {
	var reasons []string

	if genericLabels[strings.ToLower(label)] {
		if label == "misc" {
			reasons = append(reasons, "generic/miscellaneous classification")
		} else {
			reasons = append(reasons, "no clear category")
		}
	}

	switch {
	case confidence < Low:
		reasons = append(reasons, fmt.Sprintf("confidence %.2f below threshold %.2f", confidence, Low))
	case confidence < MedLow && weakGenericLabels[label]:
		reasons = append(reasons, fmt.Sprintf("weak classification as %q", label))
	case (method == model.MethodSize || method == model.MethodDatePattern) && confidence < Med:
		reasons = append(reasons, fmt.Sprintf("only matched by %s heuristic", method))
	}

	name := strings.ToLower(filepath.Base(path))
	if confidence < MedHigh {
		for _, part := range ambiguousNameParts {
			if strings.Contains(name, part) {
				reasons = append(reasons, "ambiguous filename pattern")
				break
			}
		}
	}

	if label == "dated_files" && confidence < Med {
		reasons = append(reasons, "date-only classification needs context")
	}

	return len(reasons) > 0, strings.Join(reasons, "; ")
}

// rareLabels returns labels used by fewer than max(3, 2% of total)
// files. Batches smaller than rareMinBatch skip the analysis: with a
// handful of files every label counts as rare, which says nothing.
func rareLabels(counts map[string]int, total int) map[string]bool {
	if total < rareMinBatch {
		return nil
	}
	floor := 3
	if pct := total * 2 / 100; pct > floor {
		floor = pct
	}
	rare := make(map[string]bool)
	for label, count := range counts {
		if count < floor {
			rare[label] = true
		}
	}
	return rare
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
