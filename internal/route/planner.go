// Package route turns analyzer results into routing decisions: a
// semantic destination prefix (Domain/Kind/Entity/Year), an action, and
// a collision-free target path for every file in a batch.
package route

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/filesift/filesift/internal/analyze"
	"github.com/filesift/filesift/internal/entity"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/rules"
)

// entityConfidenceGate is stricter than the extractor's own minimum. A
// wrong entity corrupts a target path, so only strong extractions make
// it into the folder structure.
const entityConfidenceGate = 0.75

// specialSuggestLabels always resolve to Suggest so anomalous files get
// a human glance before anything touches them.
var specialSuggestLabels = map[string]bool{
	"empty_files": true,
	"large_files": true,
}

// Planner routes a batch of analyzed files into a destination tree.
type Planner struct {
	DestRoot string
	ScanRoot string
	Mode     model.StructureMode
	Rules    *rules.Set
}

// routed carries one decision plus the per-file context the batch
// finalization steps need.
type routed struct {
	decision model.RoutingDecision
	prefix   string // Domain/Kind/[Entity]/[Year]
	subpath  string // original folders under the scan root, "" at top level
	preserve bool
}

// BuildPlan routes every result and resolves the batch-wide aggregates:
// SMART folder coherence, then target-path collisions. Iteration order
// is the input order, which makes the whole plan deterministic.
func (p *Planner) BuildPlan(results []model.FileResult, passID int) *model.Plan {
	ruleOverrides := 0
	items := make([]routed, len(results))
	for i, res := range results {
		var overridden bool
		items[i], overridden = p.route(res, passID)
		if overridden {
			ruleOverrides++
		}
	}

	p.applyPreservation(items, results)

	collisions := resolveCollisions(items)

	rows := make([]model.RoutingDecision, len(items))
	stats := model.PlanStats{
		ByAction:      make(map[model.Action]int),
		ByDomain:      make(map[string]int),
		TotalFiles:    len(items),
		RuleOverrides: ruleOverrides,
		Collisions:    collisions,
	}
	for i, it := range items {
		rows[i] = it.decision
		stats.ByAction[it.decision.Action]++
		stats.ByDomain[it.decision.Domain]++
		if it.decision.IsResidual {
			stats.ResidualCount++
		}
	}
	if stats.TotalFiles > 0 {
		stats.ResidualPercent = float64(stats.ResidualCount) / float64(stats.TotalFiles) * 100
	}

	return &model.Plan{
		Rows:  rows,
		Tree:  p.buildTree(items),
		Stats: stats,
	}
}

// route computes everything about one file except the parts that need
// the whole batch (preservation, collisions). Returns the routed item
// and whether a rule overrode the default decision.
func (p *Planner) route(res model.FileResult, passID int) (routed, bool) {
	tokens := p.pathTokens(res.Path)

	domain := scoreDomain(res.Label, tokens)
	kind := scoreKind(res.Label, tokens, strings.ToLower(filepath.Ext(res.Path)))

	ent := entity.Extract(res.Path)
	entityName := ""
	if ent.Confidence >= entityConfidenceGate {
		entityName = ent.Entity
	}

	action, residual := DetermineAction(res.Confidence, res.Label)

	why := res.Why
	label := res.Label
	overridden := false
	var entities []string
	if entityName != "" {
		entities = append(entities, entityName)
	}
	if ov := p.Rules.Apply(res.Path, label, entities); ov != nil {
		if ov.Label != "" && ov.Label != label {
			label = ov.Label
			domain = scoreDomain(label, tokens)
			kind = scoreKind(label, tokens, strings.ToLower(filepath.Ext(res.Path)))
			overridden = true
		}
		if ov.Action != "" {
			action = ov.Action
			overridden = true
		}
		if ov.Reason != "" {
			why = fmt.Sprintf("%s [rule %s: %s]", why, ov.Rule, ov.Reason)
		} else if overridden {
			why = fmt.Sprintf("%s [rule %s]", why, ov.Rule)
		}
	}

	prefix := composePrefix(domain, kind, entityName, ent.Year)

	return routed{
		decision: model.RoutingDecision{
			SourcePath: res.Path,
			Domain:     domain,
			Kind:       kind,
			Entity:     entityName,
			Year:       ent.Year,
			Why:        why,
			Action:     action,
			IsResidual: residual,
			Confidence: res.Confidence,
			PassID:     passID,
		},
		prefix:  prefix,
		subpath: p.relativeParent(res.Path),
	}, overridden
}

// DetermineAction maps confidence tiers to action and residual status.
// Residual status derives from confidence alone; files below the medium
// tier were never going to be confidently filed and stop being flagged.
func DetermineAction(confidence float64, label string) (model.Action, bool) {
	var residual bool
	switch {
	case confidence >= analyze.High:
		residual = false
	case confidence >= analyze.Med:
		residual = true
	default:
		residual = false
	}

	if specialSuggestLabels[label] {
		return model.ActionSuggest, residual
	}

	switch {
	case confidence >= analyze.High:
		return model.ActionMove, residual
	case confidence >= analyze.MedHigh:
		return model.ActionSuggest, residual
	default:
		return model.ActionSkip, residual
	}
}

// composePrefix builds Domain/Kind/[Entity]/[Year], each segment present
// only when known.
func composePrefix(domain, kind, entityName string, year int) string {
	parts := []string{domain, kind}
	if entityName != "" {
		parts = append(parts, entityName)
	}
	if year != 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	return filepath.Join(parts...)
}

// applyPreservation fills in preserve flags and target paths once the
// whole batch is routed. SMART mode needs every file's label first.
func (p *Planner) applyPreservation(items []routed, results []model.FileResult) {
	preserved := p.preservedFolders(items, results)
	for i := range items {
		items[i].preserve = preserved[items[i].subpath]
		target := filepath.Join(p.DestRoot, items[i].prefix)
		if items[i].preserve && items[i].subpath != "" {
			target = filepath.Join(target, items[i].subpath)
		}
		items[i].decision.TargetPath = filepath.Join(target, filepath.Base(items[i].decision.SourcePath))
	}
}

// resolveCollisions renames later-seen files whose target paths collide
// within the batch, appending __dup1, __dup2, ... in first-seen order.
// The plan never consults the live filesystem, so replanning the same
// batch reproduces the same names.
func resolveCollisions(items []routed) int {
	taken := make(map[string]bool, len(items))
	collisions := 0
	for i := range items {
		target := items[i].decision.TargetPath
		if target == "" {
			continue
		}
		unique := EnsureUniqueTarget(taken, target)
		if unique != target {
			collisions++
			items[i].decision.TargetPath = unique
		}
	}
	return collisions
}

// EnsureUniqueTarget claims target in taken, suffixing __dupN when the
// plain name is already claimed, and returns the claimed path.
func EnsureUniqueTarget(taken map[string]bool, target string) string {
	if !taken[target] {
		taken[target] = true
		return target
	}
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s__dup%d%s", stem, n, ext))
		if !taken[candidate] {
			taken[candidate] = true
			return candidate
		}
	}
}

// pathTokens tokenizes the filename stem plus every path segment between
// the scan root and the file's parent directory.
func (p *Planner) pathTokens(path string) []string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tokens := tokenize(stem)
	if sub := p.relativeParent(path); sub != "" {
		for _, seg := range strings.Split(sub, string(filepath.Separator)) {
			tokens = append(tokens, tokenize(seg)...)
		}
	}
	return tokens
}

// relativeParent returns the file's parent directory relative to the
// scan root, or "" when unknown or outside the root.
func (p *Planner) relativeParent(path string) string {
	if p.ScanRoot == "" {
		return ""
	}
	rel, err := filepath.Rel(p.ScanRoot, filepath.Dir(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return rel
}

var tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)

func tokenize(s string) []string {
	parts := tokenSplitRe.Split(strings.ToLower(s), -1)
	tokens := parts[:0]
	for _, t := range parts {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func scoreDomain(label string, tokens []string) string {
	scores := make(map[string]float64)
	if v, ok := domainLabelVotes[label]; ok {
		scores[v.target] += v.weight
	}
	for _, t := range tokens {
		if v, ok := domainTokenVotes[t]; ok {
			scores[v.target] += v.weight
		}
	}
	return pickAxis(scores, domainScoreFloor, defaultDomain)
}

func scoreKind(label string, tokens []string, ext string) string {
	scores := make(map[string]float64)
	if v, ok := kindLabelVotes[label]; ok {
		scores[v.target] += v.weight
	}
	for _, t := range tokens {
		if v, ok := kindTokenVotes[t]; ok {
			scores[v.target] += v.weight
		}
	}
	if v, ok := kindExtensionVotes[ext]; ok {
		scores[v.target] += v.weight
	}
	return pickAxis(scores, kindScoreFloor, defaultKind)
}

// pickAxis returns the highest-scoring candidate at or above the floor,
// breaking score ties alphabetically so the choice is deterministic.
func pickAxis(scores map[string]float64, floor float64, fallback string) string {
	names := make([]string, 0, len(scores))
	for n := range scores {
		names = append(names, n)
	}
	sort.Strings(names)

	best := fallback
	bestScore := 0.0
	for _, n := range names {
		if scores[n] > bestScore {
			best = n
			bestScore = scores[n]
		}
	}
	if bestScore < floor {
		return fallback
	}
	return best
}
