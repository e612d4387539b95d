package detect

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// keywordClass groups keywords that map to the same label.
type keywordClass struct {
	label      string
	keywords   []string
	confidence float64
}

// keywordClasses is the static keyword table, checked against the
// filename and stem as whole words.
var keywordClasses = []keywordClass{
	{label: "finance", confidence: 0.75, keywords: []string{
		"invoice", "receipt", "tax", "1099", "w2", "w-2", "paystub",
		"statement", "bill", "expense", "budget", "financial", "payment",
		"transaction",
	}},
	{label: "contracts", confidence: 0.80, keywords: []string{
		"contract", "agreement", "nda", "msa", "sow", "terms", "legal",
		"amendment", "addendum",
	}},
	{label: "presentations", confidence: 0.70, keywords: []string{
		"slides", "presentation", "deck", "pitch", "keynote", "powerpoint", "ppt",
	}},
	{label: "reports", confidence: 0.65, keywords: []string{
		"report", "analysis", "summary", "review", "assessment", "evaluation",
		"study", "findings",
	}},
	{label: "resumes", confidence: 0.85, keywords: []string{
		"resume", "cv", "curriculum", "vitae", "portfolio",
	}},
	{label: "personal", confidence: 0.60, keywords: []string{
		"personal", "private", "confidential", "diary", "journal",
	}},
	{label: "projects", confidence: 0.65, keywords: []string{
		"project", "proposal", "plan", "roadmap", "milestone", "deliverable",
		"scope",
	}},
	{label: "marketing", confidence: 0.70, keywords: []string{
		"marketing", "campaign", "advertising", "promotion", "brochure",
		"flyer", "newsletter",
	}},
	{label: "medical", confidence: 0.75, keywords: []string{
		"medical", "health", "prescription", "diagnosis", "treatment",
		"patient", "clinical",
	}},
	{label: "education", confidence: 0.70, keywords: []string{
		"course", "syllabus", "lecture", "homework", "assignment", "exam",
		"quiz", "notes",
	}},
}

// keywordPatterns holds a compiled whole-word regex per keyword.
var keywordPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, class := range keywordClasses {
		for _, kw := range class.keywords {
			m[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return m
}()

// KeywordDetector classifies by whole-word keyword matches in the filename.
type KeywordDetector struct {
	base
}

// NewKeywordDetector creates a keyword detector with the given per-pass
// confidence offset.
func NewKeywordDetector(boost float64) *KeywordDetector {
	return &KeywordDetector{base{boost: boost}}
}

// Name returns the detection method identifier.
func (d *KeywordDetector) Name() model.DetectionMethod { return model.MethodKeyword }

// Score finds the strongest keyword hit. Confidence is boosted when the
// keyword matches the entire stem exactly, or when the match sits in the
// leading third of the filename.
func (d *KeywordDetector) Score(path string) *model.Signal {
	name := strings.ToLower(filepath.Base(path))
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var bestKeyword, bestLabel string
	bestConfidence := 0.0

	for _, class := range keywordClasses {
		for _, kw := range class.keywords {
			loc := keywordPatterns[kw].FindStringIndex(name)
			if loc == nil {
				continue
			}

			confidence := class.confidence
			switch {
			case kw == stem:
				confidence = capConf(confidence + 0.1)
			case len(name) > 0 && float64(loc[0]) <= float64(len(name))*0.3:
				confidence = capConf(confidence + 0.05)
			}

			if confidence > bestConfidence {
				bestConfidence = confidence
				bestKeyword = kw
				bestLabel = class.label
			}
		}
	}

	if bestKeyword == "" {
		return nil
	}

	return &model.Signal{
		Label:      bestLabel,
		Confidence: d.adjust(bestConfidence),
		Method:     model.MethodKeyword,
		Why:        fmt.Sprintf("contains %q in filename", bestKeyword),
	}
}

func capConf(c float64) float64 {
	if c > confidenceCap {
		return confidenceCap
	}
	return c
}
