package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// ResidualStats summarizes why files in a batch stayed residual.
type ResidualStats struct {
	Total         int
	Residuals     int
	ByReason      map[string]int
	ByMethod      map[model.DetectionMethod]int
	AvgConfidence float64
	ResidualRate  float64
	Suggestions   []string
}

// CollectResidualStats aggregates residual outcomes and proposes
// refinement strategies based on the dominant failure modes.
func CollectResidualStats(results []model.FileResult) ResidualStats {
	stats := ResidualStats{
		Total:    len(results),
		ByReason: make(map[string]int),
		ByMethod: make(map[model.DetectionMethod]int),
	}

	var confSum float64
	for _, r := range results {
		if !r.IsResidual {
			continue
		}
		stats.Residuals++
		confSum += r.Confidence
		stats.ByMethod[r.Method]++
		for _, reason := range strings.Split(r.ResidualReason, "; ") {
			if reason != "" {
				stats.ByReason[reason]++
			}
		}
	}

	if stats.Residuals > 0 {
		stats.AvgConfidence = confSum / float64(stats.Residuals)
	}
	if stats.Total > 0 {
		stats.ResidualRate = float64(stats.Residuals) / float64(stats.Total)
	}
	stats.Suggestions = suggestStrategies(stats)
	return stats
}

// suggestStrategies maps dominant residual causes to the refinement
// passes most likely to resolve them. Output order is deterministic.
func suggestStrategies(stats ResidualStats) []string {
	if stats.Residuals == 0 {
		return nil
	}

	var suggestions []string
	add := func(s string) { suggestions = append(suggestions, s) }

	type reasonCount struct {
		reason string
		count  int
	}
	reasons := make([]reasonCount, 0, len(stats.ByReason))
	for r, c := range stats.ByReason {
		reasons = append(reasons, reasonCount{r, c})
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].count != reasons[j].count {
			return reasons[i].count > reasons[j].count
		}
		return reasons[i].reason < reasons[j].reason
	})

	seen := make(map[string]bool)
	for _, rc := range reasons {
		var s string
		switch {
		case strings.Contains(rc.reason, "no matching detector"):
			s = "contextual pass: reuse prior classifications of similar filenames"
		case strings.Contains(rc.reason, "below threshold"):
			s = "sibling pass: learn patterns from confidently classified neighbors"
		case strings.Contains(rc.reason, "ambiguous filename"):
			s = "directory pass: lean on parent folder names for ambiguous files"
		case strings.Contains(rc.reason, "date-only"), strings.Contains(rc.reason, "heuristic"):
			s = "keyword pass: widen keyword matching for weakly matched files"
		default:
			continue
		}
		if !seen[s] {
			seen[s] = true
			add(s)
		}
	}

	if stats.AvgConfidence >= MedLow {
		add(fmt.Sprintf("many residuals average %.2f confidence; a refinement boost may promote them", stats.AvgConfidence))
	}
	return suggestions
}
