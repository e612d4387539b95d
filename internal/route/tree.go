package route

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// buildTree produces the flat node list describing the top-level
// destination folders, rooted at a synthetic root node.
func (p *Planner) buildTree(items []routed) model.TreePlan {
	decisions := make([]model.RoutingDecision, len(items))
	for i, it := range items {
		decisions[i] = it.decision
	}
	return TreeFromDecisions(p.DestRoot, decisions)
}

// TreeFromDecisions rebuilds the top-level destination preview from
// routing decisions, persisted or fresh.
func TreeFromDecisions(destRoot string, rows []model.RoutingDecision) model.TreePlan {
	rootName := filepath.Base(destRoot)
	if rootName == "." || rootName == "" || rootName == string(filepath.Separator) {
		rootName = "Sorted"
	}

	tops := make(map[string]bool)
	for _, row := range rows {
		if row.Domain != "" {
			tops[row.Domain] = true
		}
	}
	names := make([]string, 0, len(tops))
	for n := range tops {
		names = append(names, n)
	}
	sort.Strings(names)

	nodes := []model.TreeNode{{ID: "n_root", Name: rootName}}
	for _, n := range names {
		nodes = append(nodes, model.TreeNode{ID: nodeID(n), Name: n, Parent: "n_root"})
	}

	return model.TreePlan{
		Root:   destRoot,
		RootID: "n_root",
		Nodes:  nodes,
	}
}

// nodeID renders a folder name as an id-safe slug.
func nodeID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "misc"
	}
	return "n_" + slug
}
