package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// RenderTree draws the destination folder preview from a flat tree
// plan. Children render indented under their parent with box-drawing
// connectors.
func RenderTree(tree model.TreePlan) string {
	children := make(map[string][]model.TreeNode)
	for _, node := range tree.Nodes {
		if node.ID == tree.RootID {
			continue
		}
		children[node.Parent] = append(children[node.Parent], node)
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(tree.Root))
	b.WriteString("\n")
	renderBranch(&b, children, tree.RootID, "")
	return b.String()
}

func renderBranch(b *strings.Builder, children map[string][]model.TreeNode, parent, indent string) {
	kids := children[parent]
	for i, node := range kids {
		connector := "├── "
		childIndent := indent + "│   "
		if i == len(kids)-1 {
			connector = "└── "
			childIndent = indent + "    "
		}
		b.WriteString(SubtleStyle.Render(indent + connector))
		b.WriteString(node.Name)
		b.WriteString("\n")
		renderBranch(b, children, node.ID, childIndent)
	}
}

// RenderPlanStats summarizes a planning pass.
func RenderPlanStats(stats model.PlanStats) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Plan summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Files:       %d\n", stats.TotalFiles))
	b.WriteString(fmt.Sprintf("  Residuals:   %d (%.1f%%)\n", stats.ResidualCount, stats.ResidualPercent))
	b.WriteString(fmt.Sprintf("  Overrides:   %d\n", stats.RuleOverrides))
	b.WriteString(fmt.Sprintf("  Collisions:  %d\n", stats.Collisions))

	b.WriteString(BoldStyle.Render("  By action:"))
	b.WriteString("\n")
	for _, action := range []model.Action{model.ActionMove, model.ActionCopy, model.ActionSuggest, model.ActionSkip} {
		if count := stats.ByAction[action]; count > 0 {
			b.WriteString(fmt.Sprintf("    %-8s %d\n", action, count))
		}
	}

	domains := make([]string, 0, len(stats.ByDomain))
	for domain := range stats.ByDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	b.WriteString(BoldStyle.Render("  By domain:"))
	b.WriteString("\n")
	for _, domain := range domains {
		b.WriteString(fmt.Sprintf("    %-10s %d\n", domain, stats.ByDomain[domain]))
	}
	return b.String()
}

// RenderRefineStats summarizes a refinement pass.
func RenderRefineStats(stats model.RefineStats) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Refinement summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Residuals in:        %d\n", stats.ResidualsIn))
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("  Promoted to Move:    %d", stats.PromotedToMove)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Promoted to Suggest: %d\n", stats.PromotedToSuggest))
	b.WriteString(WarningStyle.Render(fmt.Sprintf("  Still residual:      %d", stats.StillResidual)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Residual rate:       %.1f%%\n", stats.ResidualRate*100))
	return b.String()
}

// RenderDecisions prints mapping rows as an aligned table.
func RenderDecisions(rows []model.RoutingDecision) string {
	if len(rows) == 0 {
		return SubtleStyle.Render("no matching rows") + "\n"
	}

	var b strings.Builder
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%-8s %-5s %-5s %s", "ACTION", "CONF", "PASS", "SOURCE → TARGET")))
	b.WriteString("\n")
	for _, row := range rows {
		line := fmt.Sprintf("%-8s %.2f  %-4d %s → %s",
			row.Action, row.Confidence, row.PassID, row.SourcePath, row.TargetPath)
		if row.IsResidual {
			line = WarningStyle.Render(line + "  [residual]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
