// Package refine re-runs classification for residual files and applies
// deterministic confidence boosts when successive passes agree. Rows
// that were never residual pass through untouched.
package refine

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/filesift/filesift/internal/analyze"
	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/detect"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/route"
)

// Boost amounts. Boosting requires agreement with the immediately
// preceding pass, which is what makes repeated refinement converge.
const (
	boostPrefixContinuity = 0.05
	boostEntityOverlap    = 0.05
	boostImprovement      = 0.03
	boostedConfidenceCap  = 0.99
)

// priorConfidenceFloor selects which earlier verdicts the contextual
// detector may learn from.
const priorConfidenceFloor = analyze.High

var wordRunPattern = regexp.MustCompile(`[a-z]+|\d+`)

// Engine refines residual rows of a persisted mapping.
type Engine struct {
	planner *route.Planner
}

// New creates a refinement engine that routes fresh results through the
// given planner.
func New(planner *route.Planner) *Engine {
	return &Engine{planner: planner}
}

// Refine re-classifies every residual row and chains pass history. The
// returned slice preserves input order; non-residual rows are returned
// field-for-field unchanged. A structurally broken mapping (a row with
// no source path) fails outright, since refining it would corrupt the
// history chain.
func (e *Engine) Refine(rows []model.RoutingDecision, passID int) ([]model.RoutingDecision, model.RefineStats, error) {
	for i, row := range rows {
		if row.SourcePath == "" {
			return nil, model.RefineStats{}, fmt.Errorf("%w: row %d has no source path", common.ErrMalformedMapping, i)
		}
	}

	var residualIdx []int
	var residualPaths []string
	taken := make(map[string]bool)
	for i, row := range rows {
		if row.IsResidual {
			residualIdx = append(residualIdx, i)
			residualPaths = append(residualPaths, row.SourcePath)
		} else if row.TargetPath != "" {
			taken[row.TargetPath] = true
		}
	}

	stats := model.RefineStats{ResidualsIn: len(residualIdx)}
	if len(residualIdx) == 0 {
		return rows, stats, nil
	}

	fresh := e.reanalyze(rows, residualPaths, passID)
	plan := e.planner.BuildPlan(fresh, passID)

	out := make([]model.RoutingDecision, len(rows))
	copy(out, rows)

	for j, idx := range residualIdx {
		old := rows[idx]
		updated := e.boost(old, plan.Rows[j], fresh[j].Label)
		updated.TargetPath = route.EnsureUniqueTarget(taken, updated.TargetPath)
		out[idx] = updated

		switch {
		case updated.Action == model.ActionMove:
			stats.PromotedToMove++
		case updated.Action == model.ActionSuggest && old.Action == model.ActionSkip:
			stats.PromotedToSuggest++
		}
		if updated.IsResidual {
			stats.StillResidual++
		}
	}
	stats.ResidualRate = float64(stats.StillResidual) / float64(len(rows))

	return out, stats, nil
}

// reanalyze runs the full detector stack over the residual paths,
// augmented with a contextual detector learned from the batch's
// confident earlier verdicts.
func (e *Engine) reanalyze(rows []model.RoutingDecision, paths []string, passID int) []model.FileResult {
	priors := make(map[string]detect.PriorClassification)
	patterns := make(map[string]string)
	conflicted := make(map[string]bool)
	for _, row := range rows {
		if row.IsResidual || row.Kind == "" || row.Confidence < priorConfidenceFloor {
			continue
		}
		label := strings.ToLower(row.Kind)
		name := strings.ToLower(filepath.Base(row.SourcePath))
		priors[name] = detect.PriorClassification{
			Label:      label,
			Confidence: row.Confidence,
		}

		// Naming conventions: a token that always co-occurs with one
		// label becomes a sibling pattern; conflicted tokens are dropped.
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		for _, token := range wordRunPattern.FindAllString(stem, -1) {
			if len(token) < 4 || conflicted[token] {
				continue
			}
			if prev, ok := patterns[token]; ok && prev != label {
				delete(patterns, token)
				conflicted[token] = true
				continue
			}
			patterns[token] = label
		}
	}

	detectors := detect.Defaults()
	if len(priors) > 0 {
		detectors = append(detectors, detect.NewContextualDetector(priors, 0))
	}
	if len(patterns) > 0 {
		detectors = append(detectors, detect.NewSiblingPatternDetector(patterns, 0))
	}

	analyzer := analyze.New(detectors)
	return analyzer.AnalyzeAll(paths, passID)
}

// boost compares the fresh decision to the previous pass's decision for
// the same path and rewards continuity. When both the target prefix and
// the entity signal changed at once, no boost applies: simultaneous
// change on two independent axes is noise, not convergence.
func (e *Engine) boost(old, fresh model.RoutingDecision, label string) model.RoutingDecision {
	prefixSame := e.topPrefix(fresh.TargetPath) == e.topPrefix(old.TargetPath)
	entityChanged := fresh.Entity != old.Entity

	var amount float64
	var reasons []string
	if prefixSame {
		amount += boostPrefixContinuity
		reasons = append(reasons, "prefix continuity")
	}
	if overlapsPrevious(fresh, old) {
		amount += boostEntityOverlap
		reasons = append(reasons, "entity overlap")
	}
	if old.Action == model.ActionSuggest && fresh.Confidence > old.Confidence {
		amount += boostImprovement
		reasons = append(reasons, "improved confidence")
	}
	if !prefixSame && entityChanged {
		amount = 0
		reasons = nil
	}

	confidence := fresh.Confidence + amount
	if confidence > boostedConfidenceCap {
		confidence = boostedConfidenceCap
	}

	action, residual := route.DetermineAction(confidence, label)

	fresh.Confidence = confidence
	fresh.Action = action
	fresh.IsResidual = residual
	if amount > 0 {
		fresh.Why = fmt.Sprintf("%s [boost +%.2f: %s]", fresh.Why, amount, strings.Join(reasons, ", "))
	}

	// One hop back: history mirrors the immediately preceding pass.
	fresh.PreviousPassID = old.PassID
	fresh.PreviousAction = old.Action
	fresh.PreviousConfidence = old.Confidence
	fresh.PreviousTargetPath = old.TargetPath

	return fresh
}

// overlapsPrevious checks whether the freshly extracted entity or year
// also appears in the previous pass's decision.
func overlapsPrevious(fresh, old model.RoutingDecision) bool {
	if fresh.Entity != "" {
		if fresh.Entity == old.Entity {
			return true
		}
		if strings.Contains(strings.ToLower(old.TargetPath), strings.ToLower(fresh.Entity)) {
			return true
		}
	}
	if fresh.Year != 0 {
		if fresh.Year == old.Year {
			return true
		}
		if strings.Contains(old.TargetPath, strconv.Itoa(fresh.Year)) {
			return true
		}
	}
	return false
}

// topPrefix returns the first path segment under the destination root.
func (e *Engine) topPrefix(target string) string {
	rel, err := filepath.Rel(e.planner.DestRoot, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
