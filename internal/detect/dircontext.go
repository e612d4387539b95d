package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// folderHint maps a folder name to a label with a base confidence that is
// deliberately lower than extension or keyword evidence.
type folderHint struct {
	label      string
	confidence float64
}

var folderHints = map[string]folderHint{
	"photos":        {"images", 0.65},
	"pictures":      {"images", 0.65},
	"screenshots":   {"images", 0.60},
	"videos":        {"videos", 0.65},
	"movies":        {"videos", 0.60},
	"music":         {"audio", 0.65},
	"podcasts":      {"audio", 0.60},
	"invoices":      {"finance", 0.65},
	"receipts":      {"finance", 0.65},
	"taxes":         {"finance", 0.65},
	"statements":    {"finance", 0.60},
	"contracts":     {"contracts", 0.65},
	"legal":         {"contracts", 0.60},
	"reports":       {"reports", 0.60},
	"presentations": {"presentations", 0.60},
	"code":          {"code", 0.60},
	"src":           {"code", 0.55},
	"scripts":       {"code", 0.55},
	"backups":       {"archives", 0.55},
	"medical":       {"medical", 0.65},
	"school":        {"education", 0.60},
	"courses":       {"education", 0.60},
}

// ancestorDecay lowers confidence the further the hinting folder sits
// from the file.
const ancestorDecay = 0.05

// dirContextFloor is the lowest confidence a directory hint can carry.
const dirContextFloor = 0.40

// DirContextDetector classifies by ancestor directory names, nearest first.
type DirContextDetector struct {
	base
}

// NewDirContextDetector creates a directory-context detector with the
// given per-pass confidence offset.
func NewDirContextDetector(boost float64) *DirContextDetector {
	return &DirContextDetector{base{boost: boost}}
}

// Name returns the detection method identifier.
func (d *DirContextDetector) Name() model.DetectionMethod { return model.MethodDirContext }

// Score walks ancestor directories nearest first and returns the first
// folder hint found, with confidence decayed by distance from the file.
func (d *DirContextDetector) Score(path string) *model.Signal {
	dir := filepath.Dir(path)

	for depth := 0; dir != "" && depth < 8; depth++ {
		name := strings.ToLower(filepath.Base(dir))
		if hint, ok := folderHints[name]; ok {
			confidence := hint.confidence - float64(depth)*ancestorDecay
			if confidence < dirContextFloor {
				confidence = dirContextFloor
			}
			return &model.Signal{
				Label:      hint.label,
				Confidence: d.adjust(confidence),
				Method:     model.MethodDirContext,
				Why:        fmt.Sprintf("parent folder %q suggests %s", name, hint.label),
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil
}
