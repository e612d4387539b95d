package route

import (
	"github.com/filesift/filesift/internal/model"
)

// smartCoherenceFloor is the fraction of a folder's files that must
// share the modal label for SMART mode to preserve that folder's
// original subpath. A coherent folder ("Car/Insurance" full of policy
// documents) is meaningful structure; an incoherent one ("Downloads")
// is noise worth flattening.
const smartCoherenceFloor = 0.55

// preservedFolders decides, per original subfolder, whether the subpath
// survives under the semantic prefix. ON preserves everything, OFF
// nothing, SMART preserves folders whose label coherence clears the
// floor. The top-level ("" subpath) is never preserved; there is
// nothing to keep.
func (p *Planner) preservedFolders(items []routed, results []model.FileResult) map[string]bool {
	preserved := make(map[string]bool)

	switch p.Mode {
	case model.StructureOff:
		return preserved
	case model.StructureOn:
		for _, it := range items {
			if it.subpath != "" {
				preserved[it.subpath] = true
			}
		}
		return preserved
	}

	// SMART: group labels by folder, measure coherence.
	folderLabels := make(map[string]map[string]int)
	folderTotals := make(map[string]int)
	for i, it := range items {
		if it.subpath == "" {
			continue
		}
		if folderLabels[it.subpath] == nil {
			folderLabels[it.subpath] = make(map[string]int)
		}
		folderLabels[it.subpath][results[i].Label]++
		folderTotals[it.subpath]++
	}

	for folder, labels := range folderLabels {
		// A single file cannot demonstrate coherence.
		if folderTotals[folder] < 2 {
			continue
		}
		modal := 0
		for _, count := range labels {
			if count > modal {
				modal = count
			}
		}
		coherence := float64(modal) / float64(folderTotals[folder])
		if coherence >= smartCoherenceFloor {
			preserved[folder] = true
		}
	}
	return preserved
}
