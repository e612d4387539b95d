package entity

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Kind classifies an extracted entity.
type Kind string

const (
	KindOrg     Kind = "org"
	KindPerson  Kind = "person"
	KindPlace   Kind = "place"
	KindProject Kind = "project"
	KindNone    Kind = "none"
)

// Result is the outcome of entity extraction for a single path.
type Result struct {
	Entity     string
	Kind       Kind
	Year       int // 0 means no year found
	Confidence float64
	Source     string // "parent", "filename", or "none"
}

const minCandidateScore = 2.0

const (
	scoreParentSource = 2.0
	scoreFileSource   = 1.0
	scoreCaseChange   = 1.0
	scoreAddressLike  = 2.0
	scoreLeadingUpper = 0.8
	confidenceDivisor = 5.0
)

var (
	yearRe        = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	quarterYearRe = regexp.MustCompile(`(?i)Q[1-4][_\-\s]*(19\d{2}|20\d{2})`)
	yearMonthRe   = regexp.MustCompile(`(19\d{2}|20\d{2})[_\-](0[1-9]|1[0-2])`)
	addressRe     = regexp.MustCompile(`\d{3,5}[ _\-][A-Z][a-z]+`)
	trailingYear  = regexp.MustCompile(`(?i)[_\-\s]*(?:Q[1-4][_\-\s]*)?(19|20)\d{2}$`)
	separatorsRe  = regexp.MustCompile(`[_\-./]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	digitsOnlyRe  = regexp.MustCompile(`^[0-9]+$`)
	alnumRe       = regexp.MustCompile(`[a-z0-9]`)
)

type candidate struct {
	raw    string
	source string
	score  float64
}

// Extract pulls the strongest entity and a year out of one path. It
// never fails; paths with nothing to offer return KindNone with zero
// confidence.
func Extract(path string) Result {
	year := ExtractYear(path)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parent := filepath.Base(filepath.Dir(path))
	if parent == "." || parent == string(filepath.Separator) || parent == "/" {
		parent = ""
	}

	var candidates []candidate
	if c, ok := buildCandidate(parent, "parent", scoreParentSource); ok {
		candidates = append(candidates, c)
	}
	if c, ok := buildCandidate(stem, "filename", scoreFileSource); ok {
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return Result{Kind: KindNone, Year: year, Source: "none"}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	best := candidates[0]
	if best.score < minCandidateScore {
		return Result{Kind: KindNone, Year: year, Source: "none"}
	}

	canonical := Canonicalize(best.raw)
	if canonical == "" {
		return Result{Kind: KindNone, Year: year, Source: "none"}
	}

	conf := best.score / confidenceDivisor
	if conf > 1.0 {
		conf = 1.0
	}
	return Result{
		Entity:     canonical,
		Kind:       classify(best.raw),
		Year:       year,
		Confidence: conf,
		Source:     best.source,
	}
}

// buildCandidate filters and scores one raw path segment. The raw text
// keeps its original casing so case-transition signals survive.
func buildCandidate(raw, source string, sourceScore float64) (candidate, bool) {
	raw = strings.TrimSpace(trailingYear.ReplaceAllString(raw, ""))
	raw = strings.Trim(raw, "_- ")
	if raw == "" {
		return candidate{}, false
	}

	normalized := normalize(raw)
	if rejectCandidate(normalized) {
		return candidate{}, false
	}

	score := sourceScore
	if hasCaseTransition(raw) {
		score += scoreCaseChange
	}
	if addressRe.MatchString(raw) {
		score += scoreAddressLike
	}
	if first := []rune(raw); len(first) > 0 && unicode.IsUpper(first[0]) {
		score += scoreLeadingUpper
	}
	return candidate{raw: raw, source: source, score: score}, true
}

func rejectCandidate(normalized string) bool {
	if normalized == "" {
		return true
	}
	if digitsOnlyRe.MatchString(strings.ReplaceAll(normalized, " ", "")) {
		return true
	}
	if len(normalized) < 3 && !acronymWhitelist[normalized] {
		return true
	}
	if !alnumRe.MatchString(normalized) {
		return true
	}
	words := strings.Fields(normalized)
	allJunk := true
	for _, w := range words {
		if !junkTokens[w] {
			allJunk = false
			break
		}
	}
	return allJunk
}

// classify looks the normalized form up in the dictionaries; anything
// not recognized is treated as a project name.
func classify(raw string) Kind {
	normalized := normalize(raw)
	switch {
	case matchesSet(normalized, orgEntities):
		return KindOrg
	case matchesSet(normalized, personEntities):
		return KindPerson
	case matchesSet(normalized, placeEntities):
		return KindPlace
	default:
		return KindProject
	}
}

func matchesSet(normalized string, set map[string]bool) bool {
	if set[normalized] {
		return true
	}
	for _, w := range strings.Fields(normalized) {
		if len(w) >= 3 && set[w] {
			return true
		}
	}
	return false
}

// ExtractYear scans the full path for year patterns and returns the most
// recent valid year, or 0 when none is present. Valid years fall in
// [1990, current year + 1].
func ExtractYear(path string) int {
	maxYear := time.Now().Year() + 1
	best := 0

	consider := func(s string) {
		y, err := strconv.Atoi(s)
		if err != nil {
			return
		}
		if y >= 1990 && y <= maxYear && y > best {
			best = y
		}
	}

	for _, m := range yearRe.FindAllString(path, -1) {
		consider(m)
	}
	for _, m := range quarterYearRe.FindAllStringSubmatch(path, -1) {
		consider(m[1])
	}
	for _, m := range yearMonthRe.FindAllStringSubmatch(path, -1) {
		consider(m[1])
	}
	return best
}

// normalize splits camelCase, lowercases, and collapses separators to
// single spaces, so "Client_A", "ClientA", and "client a" all normalize
// to "client a".
func normalize(text string) string {
	text = splitCamel(text)
	text = strings.ToLower(strings.TrimSpace(text))
	text = separatorsRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Canonicalize renders an entity as TitleCase with no internal spaces,
// except whitelisted acronyms which render all-caps. Junk suffix tokens
// are stripped first.
func Canonicalize(text string) string {
	normalized := normalize(text)
	if normalized == "" {
		return ""
	}

	words := strings.Fields(normalized)
	kept := words[:0]
	for _, w := range words {
		if !junkSuffixes[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	cleaned := strings.Join(kept, " ")
	if len(cleaned) <= 4 && acronymWhitelist[cleaned] {
		return strings.ToUpper(cleaned)
	}

	var b strings.Builder
	for _, w := range kept {
		b.WriteString(strings.ToUpper(w[:1]))
		if len(w) > 1 {
			b.WriteString(w[1:])
		}
	}
	return b.String()
}

// splitCamel inserts a space at each lower-to-upper transition.
func splitCamel(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsLower(runes[i-1]) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// hasCaseTransition reports an internal lower-to-upper transition, the
// camelCase signal ("ClientA", "QuickBooks").
func hasCaseTransition(s string) bool {
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsLower(runes[i-1]) && unicode.IsUpper(runes[i]) {
			return true
		}
	}
	return false
}
