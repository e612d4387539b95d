package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filesift/filesift/internal/model"
)

func TestRenderTreeShowsDomainsUnderRoot(t *testing.T) {
	tree := model.TreePlan{
		Root:   "/out/Sorted",
		RootID: "n_root",
		Nodes: []model.TreeNode{
			{ID: "n_root", Name: "Sorted"},
			{ID: "n_media", Name: "Media", Parent: "n_root"},
			{ID: "n_finance", Name: "Finance", Parent: "n_root"},
		},
	}

	out := RenderTree(tree)
	assert.Contains(t, out, "/out/Sorted")
	assert.Contains(t, out, "Finance")
	assert.Contains(t, out, "Media")
	// Children render alphabetically regardless of node order.
	assert.Less(t, strings.Index(out, "Finance"), strings.Index(out, "Media"))
	assert.Contains(t, out, "└── ")
}

func TestRenderPlanStats(t *testing.T) {
	stats := model.PlanStats{
		ByAction:        map[model.Action]int{model.ActionMove: 3, model.ActionSkip: 1},
		ByDomain:        map[string]int{"Finance": 2, "Media": 2},
		TotalFiles:      4,
		ResidualCount:   1,
		ResidualPercent: 25.0,
	}

	out := RenderPlanStats(stats)
	assert.Contains(t, out, "Files:       4")
	assert.Contains(t, out, "(25.0%)")
	assert.Contains(t, out, "Move")
	assert.NotContains(t, out, "Copy", "zero-count actions are omitted")
}

func TestRenderDecisionsEmpty(t *testing.T) {
	out := RenderDecisions(nil)
	assert.Contains(t, out, "no matching rows")
}

func TestRenderDecisionsFlagsResiduals(t *testing.T) {
	rows := []model.RoutingDecision{
		{SourcePath: "/in/a.pdf", TargetPath: "/out/a.pdf", Action: model.ActionMove, Confidence: 0.9, PassID: 1},
		{SourcePath: "/in/b.tmp", TargetPath: "/out/b.tmp", Action: model.ActionSkip, Confidence: 0.3, PassID: 1, IsResidual: true},
	}

	out := RenderDecisions(rows)
	assert.Contains(t, out, "/in/a.pdf → /out/a.pdf")
	assert.Contains(t, out, "[residual]")
}
