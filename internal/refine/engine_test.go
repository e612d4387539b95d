package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesift/filesift/internal/common"
	"github.com/filesift/filesift/internal/model"
	"github.com/filesift/filesift/internal/route"
	"github.com/filesift/filesift/internal/rules"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	set, warnings := rules.Compile(nil)
	require.Empty(t, warnings)
	return New(&route.Planner{
		DestRoot: "/sorted",
		ScanRoot: "/in",
		Mode:     model.StructureOff,
		Rules:    set,
	})
}

func TestNonResidualRowsPassThroughUnchanged(t *testing.T) {
	kept := []model.RoutingDecision{
		{
			SourcePath: "/in/a.pdf", Domain: "Finance", Kind: "Invoices",
			Entity: "Chase", Year: 2023, TargetPath: "/sorted/Finance/Invoices/Chase/2023/a.pdf",
			Confidence: 0.92, Action: model.ActionMove, Why: "extension .pdf",
			PassID: 1,
		},
		{
			SourcePath: "/in/b.jpg", Domain: "Media", Kind: "Photos",
			TargetPath: "/sorted/Media/Photos/b.jpg",
			Confidence: 0.90, Action: model.ActionMove, Why: "extension .jpg",
			PassID: 1,
		},
	}
	residual := model.RoutingDecision{
		SourcePath: "/in/bundle.zip", Domain: "Archive", Kind: "Documents",
		TargetPath: "/sorted/Archive/Documents/bundle.zip",
		Confidence: 0.60, Action: model.ActionSkip, IsResidual: true,
		PassID: 1,
	}

	rows := append(append([]model.RoutingDecision{}, kept...), residual)
	out, stats, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, kept[0], out[0])
	assert.Equal(t, kept[1], out[1])
	assert.NotEqual(t, residual, out[2])
	assert.Equal(t, 1, stats.ResidualsIn)
}

func TestPrefixContinuityBoost(t *testing.T) {
	rows := []model.RoutingDecision{{
		SourcePath: "/in/bundle.zip", Domain: "Archive", Kind: "Documents",
		TargetPath: "/sorted/Archive/Documents/bundle.zip",
		Confidence: 0.60, Action: model.ActionSkip, IsResidual: true,
		Why:    "weak first-pass signal",
		PassID: 1,
	}}

	out, stats, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)

	row := out[0]
	// Fresh extension signal gives archives at 0.95; prefix agreement
	// with pass 1 adds 0.05, capped at 0.99.
	assert.InDelta(t, 0.99, row.Confidence, 1e-9)
	assert.Equal(t, model.ActionMove, row.Action)
	assert.False(t, row.IsResidual)
	assert.Contains(t, row.Why, "[boost +0.05: prefix continuity]")
	assert.Equal(t, "/sorted/Archive/Archives/bundle.zip", row.TargetPath)

	assert.Equal(t, 1, stats.PromotedToMove)
	assert.Zero(t, stats.StillResidual)
}

func TestConflictSuppressesBoost(t *testing.T) {
	rows := []model.RoutingDecision{{
		SourcePath: "/in/bundle.zip", Domain: "Finance", Kind: "Invoices",
		Entity:     "ClientA",
		TargetPath: "/sorted/Finance/Invoices/ClientA/bundle.zip",
		Confidence: 0.70, Action: model.ActionSkip, IsResidual: true,
		PassID: 1,
	}}

	out, _, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)

	row := out[0]
	// Both the top-level prefix (Finance -> Archive) and the entity
	// signal (ClientA -> none) changed: boost must be exactly zero.
	assert.InDelta(t, 0.95, row.Confidence, 1e-9)
	assert.NotContains(t, row.Why, "[boost")
}

func TestHistoryChainsOneHopBack(t *testing.T) {
	rows := []model.RoutingDecision{{
		SourcePath: "/in/bundle.zip",
		TargetPath: "/sorted/Archive/Documents/bundle.zip",
		Confidence: 0.60, Action: model.ActionSuggest, IsResidual: true,
		PassID:             2,
		PreviousPassID:     1,
		PreviousAction:     model.ActionSkip,
		PreviousConfidence: 0.40,
		PreviousTargetPath: "/sorted/Archive/Misc/bundle.zip",
	}}

	out, _, err := newEngine(t).Refine(rows, 3)
	require.NoError(t, err)

	row := out[0]
	assert.Equal(t, 3, row.PassID)
	// Previous* mirrors pass 2, not the original pass 1.
	assert.Equal(t, 2, row.PreviousPassID)
	assert.Equal(t, model.ActionSuggest, row.PreviousAction)
	assert.InDelta(t, 0.60, row.PreviousConfidence, 1e-9)
	assert.Equal(t, "/sorted/Archive/Documents/bundle.zip", row.PreviousTargetPath)
}

func TestStillResidualAfterRefinement(t *testing.T) {
	rows := []model.RoutingDecision{{
		SourcePath: "/in/resume_jane.pdf", Domain: "Personal", Kind: "Documents",
		TargetPath: "/sorted/Personal/Documents/resume_jane.pdf",
		Confidence: 0.50, Action: model.ActionSkip, IsResidual: true,
		PassID: 1,
	}}

	out, stats, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)

	row := out[0]
	assert.Equal(t, model.ActionSuggest, row.Action)
	assert.True(t, row.IsResidual)
	assert.Equal(t, 1, stats.PromotedToSuggest)
	assert.Equal(t, 1, stats.StillResidual)
	assert.InDelta(t, 1.0, stats.ResidualRate, 1e-9)
}

func TestRefineAvoidsTargetsOfUntouchedRows(t *testing.T) {
	rows := []model.RoutingDecision{
		{
			SourcePath: "/in/a/bundle.zip",
			TargetPath: "/sorted/Archive/Archives/bundle.zip",
			Confidence: 0.95, Action: model.ActionMove,
			PassID: 1,
		},
		{
			SourcePath: "/in/b/bundle.zip",
			TargetPath: "/sorted/Archive/Documents/bundle.zip",
			Confidence: 0.60, Action: model.ActionSkip, IsResidual: true,
			PassID: 1,
		},
	}

	out, _, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)

	// The refined row reroutes to Archive/Archives, which the untouched
	// row already occupies.
	assert.Equal(t, "/sorted/Archive/Archives/bundle__dup1.zip", out[1].TargetPath)
}

func TestRefineLearnsSiblingNamingPatterns(t *testing.T) {
	rows := []model.RoutingDecision{
		{
			SourcePath: "/in/qproj_alpha.dat", Domain: "Business", Kind: "Projects",
			TargetPath: "/sorted/Business/Projects/qproj_alpha.dat",
			Confidence: 0.90, Action: model.ActionMove,
			PassID: 1,
		},
		{
			SourcePath: "/in/qproj_gamma.xyz", Domain: "Business", Kind: "Documents",
			TargetPath: "/sorted/Business/Documents/qproj_gamma.xyz",
			Confidence: 0.55, Action: model.ActionSkip, IsResidual: true,
			Why:    "unknown extension",
			PassID: 1,
		},
	}

	out, stats, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)

	// The lone sibling is not enough for the contextual detector's
	// two-token threshold, so the naming-pattern match must carry it:
	// 0.60 × 1.1 pass boost + 0.05 prefix continuity.
	row := out[1]
	assert.Contains(t, row.Why, `matches naming pattern "qproj"`)
	assert.Contains(t, row.Why, "[boost +0.05: prefix continuity]")
	assert.InDelta(t, 0.71, row.Confidence, 1e-9)
	assert.Equal(t, model.ActionSkip, row.Action)
	assert.True(t, row.IsResidual)
	assert.Equal(t, 1, stats.StillResidual)
}

func TestRefineNoResiduals(t *testing.T) {
	rows := []model.RoutingDecision{{
		SourcePath: "/in/a.pdf", TargetPath: "/sorted/Finance/Invoices/a.pdf",
		Confidence: 0.92, Action: model.ActionMove, PassID: 1,
	}}

	out, stats, err := newEngine(t).Refine(rows, 2)
	require.NoError(t, err)
	assert.Equal(t, rows, out)
	assert.Zero(t, stats.ResidualsIn)
}

func TestRefineMalformedMapping(t *testing.T) {
	rows := []model.RoutingDecision{{TargetPath: "/sorted/x", Action: model.ActionMove}}

	_, _, err := newEngine(t).Refine(rows, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedMapping)
}
