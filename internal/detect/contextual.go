package detect

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// PriorClassification is a previously confident verdict the contextual
// detector can learn from.
type PriorClassification struct {
	Label      string
	Confidence float64
}

var wordRunPattern = regexp.MustCompile(`[a-zA-Z]+|\d+`)

// ContextualDetector reuses confident classifications from an earlier
// batch as evidence for similarly named files. It is not part of the
// default stack; refinement passes may add it when prior results exist.
type ContextualDetector struct {
	priors map[string]PriorClassification
	fuzzy  map[string]map[string]int
	base
}

// NewContextualDetector builds a contextual detector from prior
// classifications keyed by lowercase filename.
func NewContextualDetector(priors map[string]PriorClassification, boost float64) *ContextualDetector {
	d := &ContextualDetector{
		priors: priors,
		fuzzy:  make(map[string]map[string]int),
		base:   base{boost: boost},
	}

	for filename, info := range priors {
		for _, part := range wordRunPattern.FindAllString(filename, -1) {
			if len(part) < 3 {
				continue
			}
			part = strings.ToLower(part)
			if d.fuzzy[part] == nil {
				d.fuzzy[part] = make(map[string]int)
			}
			d.fuzzy[part][info.Label]++
		}
	}

	return d
}

// Name returns the detection method identifier.
func (d *ContextualDetector) Name() model.DetectionMethod { return model.MethodContextual }

// Score matches the filename, then the stem, against prior verdicts, and
// finally falls back to fuzzy token overlap with at least two hits.
func (d *ContextualDetector) Score(path string) *model.Signal {
	name := strings.ToLower(filepath.Base(path))
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	if info, ok := d.priors[name]; ok {
		return &model.Signal{
			Label:      info.Label,
			Confidence: d.adjust(minFloat(info.Confidence*0.9, 0.85)),
			Method:     model.MethodContextual,
			Why:        fmt.Sprintf("matches previously classified %q", name),
		}
	}

	if info, ok := d.priors[stem]; ok {
		return &model.Signal{
			Label:      info.Label,
			Confidence: d.adjust(minFloat(info.Confidence*0.8, 0.75)),
			Method:     model.MethodContextual,
			Why:        fmt.Sprintf("similar to previously classified %q", stem),
		}
	}

	labelScores := make(map[string]int)
	for _, part := range wordRunPattern.FindAllString(name, -1) {
		if len(part) < 3 {
			continue
		}
		for label, count := range d.fuzzy[strings.ToLower(part)] {
			labelScores[label] += count
		}
	}

	bestLabel := ""
	bestCount := 0
	for label, count := range labelScores {
		if count > bestCount || (count == bestCount && label < bestLabel) {
			bestLabel = label
			bestCount = count
		}
	}

	if bestCount < 2 {
		return nil
	}

	return &model.Signal{
		Label:      bestLabel,
		Confidence: d.adjust(minFloat(0.55+float64(bestCount)*0.05, 0.75)),
		Method:     model.MethodContextual,
		Why:        fmt.Sprintf("pattern similarity to %d classified files", bestCount),
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
