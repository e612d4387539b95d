package model

import (
	"fmt"
	"strconv"
)

// Action tells the executor what to do with a file.
type Action string

// Action constants.
const (
	ActionMove    Action = "Move"
	ActionCopy    Action = "Copy"
	ActionSuggest Action = "Suggest"
	ActionSkip    Action = "Skip"
)

// ValidActions enumerates every action the planner or a rule may emit.
var ValidActions = map[Action]bool{
	ActionMove:    true,
	ActionCopy:    true,
	ActionSuggest: true,
	ActionSkip:    true,
}

// StructureMode controls whether the original subfolder layout under the
// scan root is replicated beneath the semantic prefix.
type StructureMode string

// Structure preservation modes.
const (
	StructureOn    StructureMode = "on"
	StructureOff   StructureMode = "off"
	StructureSmart StructureMode = "smart"
)

// ParseStructureMode normalizes a user-supplied mode string, defaulting
// to SMART for empty or unknown input.
func ParseStructureMode(s string) StructureMode {
	switch StructureMode(s) {
	case StructureOn, StructureOff, StructureSmart:
		return StructureMode(s)
	}
	return StructureSmart
}

// RoutingDecision is the planner's output for one file in one pass. It is
// the unit that gets persisted, read back on the next pass, and partially
// copied forward into the Previous* history fields.
type RoutingDecision struct {
	SourcePath string
	Domain     string
	Kind       string
	Entity     string
	TargetPath string
	Why        string
	Action     Action

	// History quadruple, populated only on refinement passes. A zero
	// PreviousPassID means no prior pass is recorded.
	PreviousAction     Action
	PreviousTargetPath string

	Year               int
	PassID             int
	PreviousPassID     int
	Confidence         float64
	PreviousConfidence float64
	IsResidual         bool
}

// MappingCSVFields is the stable column order for mapping exports.
var MappingCSVFields = []string{
	"SourcePath",
	"Domain",
	"Kind",
	"Entity",
	"Year",
	"TargetPath",
	"Confidence",
	"Action",
	"IsResidual",
	"Why",
	"PassId",
	"PreviousPassId",
	"PreviousAction",
	"PreviousConfidence",
	"PreviousTargetPath",
}

// CSVRecord renders the decision in MappingCSVFields order.
func (d RoutingDecision) CSVRecord() []string {
	year := ""
	if d.Year != 0 {
		year = strconv.Itoa(d.Year)
	}
	prevPass := ""
	prevConf := ""
	if d.PreviousPassID != 0 {
		prevPass = strconv.Itoa(d.PreviousPassID)
		prevConf = fmt.Sprintf("%.4f", d.PreviousConfidence)
	}
	return []string{
		d.SourcePath,
		d.Domain,
		d.Kind,
		d.Entity,
		year,
		d.TargetPath,
		fmt.Sprintf("%.4f", d.Confidence),
		string(d.Action),
		strconv.FormatBool(d.IsResidual),
		d.Why,
		strconv.Itoa(d.PassID),
		prevPass,
		string(d.PreviousAction),
		prevConf,
		d.PreviousTargetPath,
	}
}

// DecisionFromCSVRecord parses a record produced by CSVRecord. Malformed
// numeric fields degrade to zero values rather than failing the row.
func DecisionFromCSVRecord(rec []string) (RoutingDecision, error) {
	if len(rec) != len(MappingCSVFields) {
		return RoutingDecision{}, fmt.Errorf("mapping record has %d fields, want %d", len(rec), len(MappingCSVFields))
	}
	parseInt := func(s string) int {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	}
	parseFloat := func(s string) float64 {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return RoutingDecision{
		SourcePath:         rec[0],
		Domain:             rec[1],
		Kind:               rec[2],
		Entity:             rec[3],
		Year:               parseInt(rec[4]),
		TargetPath:         rec[5],
		Confidence:         parseFloat(rec[6]),
		Action:             Action(rec[7]),
		IsResidual:         rec[8] == "true" || rec[8] == "True" || rec[8] == "1",
		Why:                rec[9],
		PassID:             parseInt(rec[10]),
		PreviousPassID:     parseInt(rec[11]),
		PreviousAction:     Action(rec[12]),
		PreviousConfidence: parseFloat(rec[13]),
		PreviousTargetPath: rec[14],
	}, nil
}
