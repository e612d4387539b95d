package detect

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// datePattern pairs a filename date encoding with its base confidence.
type datePattern struct {
	re          *regexp.Regexp
	description string
	confidence  float64
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`\d{4}[-_]\d{2}[-_]\d{2}`), "YYYY-MM-DD", 0.50},
	{regexp.MustCompile(`\d{2}[-_]\d{2}[-_]\d{4}`), "MM-DD-YYYY", 0.50},
	{regexp.MustCompile(`\d{8}`), "YYYYMMDD", 0.45},
	{regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[-_]?\d{4}`), "month-year", 0.45},
	{regexp.MustCompile(`\d{4}[-_](jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`), "year-month", 0.45},
	{regexp.MustCompile(`(q1|q2|q3|q4)[-_]?\d{4}`), "quarter-year", 0.55},
	{regexp.MustCompile(`\d{4}[-_](q1|q2|q3|q4)`), "year-quarter", 0.55},
}

// financialTerms co-occurring with a date pattern promote the label from
// dated_files to finance.
var financialTerms = []string{"report", "statement", "invoice"}

// DatePatternDetector classifies files whose names embed a date encoding.
type DatePatternDetector struct {
	base
}

// NewDatePatternDetector creates a date pattern detector with the given
// per-pass confidence offset.
func NewDatePatternDetector(boost float64) *DatePatternDetector {
	return &DatePatternDetector{base{boost: boost}}
}

// Name returns the detection method identifier.
func (d *DatePatternDetector) Name() model.DetectionMethod { return model.MethodDatePattern }

// Score emits a low-confidence dated_files signal for date-bearing names,
// boosted and relabeled to finance when financial terms co-occur.
func (d *DatePatternDetector) Score(path string) *model.Signal {
	name := strings.ToLower(filepath.Base(path))

	for _, p := range datePatterns {
		if !p.re.MatchString(name) {
			continue
		}

		label := "dated_files"
		confidence := p.confidence
		for _, term := range financialTerms {
			if strings.Contains(name, term) {
				label = "finance"
				confidence = capConf(confidence + 0.15)
				break
			}
		}

		return &model.Signal{
			Label:      label,
			Confidence: d.adjust(confidence),
			Method:     model.MethodDatePattern,
			Why:        fmt.Sprintf("contains date in %s format", p.description),
		}
	}

	return nil
}
