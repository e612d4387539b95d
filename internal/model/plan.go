package model

import "time"

// TreeNode is one folder in the destination preview. The root node has an
// empty Parent.
type TreeNode struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// TreePlan describes the top-level destination folder structure for
// preview. It is a flat node list rooted at a synthetic root node.
type TreePlan struct {
	Root   string     `json:"root"`
	RootID string     `json:"root_id"`
	Nodes  []TreeNode `json:"nodes"`
}

// Plan bundles everything a draft or refinement pass produces.
type Plan struct {
	Rows  []RoutingDecision
	Tree  TreePlan
	Stats PlanStats
}

// PlanStats summarizes a planning pass for reporting.
type PlanStats struct {
	ByAction        map[Action]int
	ByDomain        map[string]int
	TotalFiles      int
	ResidualCount   int
	RuleOverrides   int
	Collisions      int
	ResidualPercent float64
}

// RefineStats summarizes one residual refinement pass.
type RefineStats struct {
	ResidualsIn       int
	PromotedToMove    int
	PromotedToSuggest int
	StillResidual     int
	ResidualRate      float64
}

// JournalOp is the kind of event recorded in the run journal.
type JournalOp string

// Journal operation constants.
const (
	OpMove            JournalOp = "Move"
	OpCopy            JournalOp = "Copy"
	OpCollisionRename JournalOp = "CollisionRename"
	OpSkip            JournalOp = "Skip"
	OpError           JournalOp = "Error"
	OpUndoMove        JournalOp = "UndoMove"
	OpUndoCopy        JournalOp = "UndoCopy"
)

// JournalEvent is one replayable entry in the run journal. Events for a
// single invocation share a RunID so undo can reverse exactly one run.
type JournalEvent struct {
	Time       time.Time
	RunID      string
	Operation  JournalOp
	SourcePath string
	DestPath   string
	Status     string
	Details    string
	PassID     int
}

// ExecStats reports what the executor did (or would do, in dry-run mode).
type ExecStats struct {
	Moved            int
	Copied           int
	SkippedByAction  int
	SkippedResiduals int
	Errors           int
}
