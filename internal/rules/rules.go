// Package rules applies user-defined overrides to routing decisions.
// Rules are ordered predicate/effect pairs; the first rule whose
// predicates all match a file wins. Built-in safety rules always run
// ahead of user rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// Rule pairs optional predicates with optional effects. A rule with no
// effect still matches, it just changes nothing.
type Rule struct {
	Name          string `yaml:"name,omitempty"`
	Extension     string `yaml:"extension,omitempty"`
	Pattern       string `yaml:"pattern,omitempty"`
	Regex         string `yaml:"regex,omitempty"`
	IfLabel       string `yaml:"if_label,omitempty"`
	Entity        string `yaml:"entity,omitempty"`
	EntityPattern string `yaml:"entity_pattern,omitempty"`

	Label  string `yaml:"label,omitempty"`
	Action string `yaml:"action,omitempty"`
	Reason string `yaml:"reason,omitempty"`
}

// compiledRule carries the rule plus its precompiled matchers.
type compiledRule struct {
	rule          Rule
	patternRe     *regexp.Regexp // nil when Pattern is a plain substring
	regexRe       *regexp.Regexp
	entityPattern *regexp.Regexp
}

// Set is an ordered, validated rule collection ready to apply.
type Set struct {
	compiled []compiledRule
}

// Override is the effect of the first matching rule.
type Override struct {
	Label  string // empty means keep the current label
	Action model.Action
	Reason string
	Rule   string // rule name or positional description
}

// Builtin returns the safety rules that always run first: credential
// stores and OS metadata files are never moved automatically.
func Builtin() []Rule {
	return []Rule{
		{Name: "password-database", Extension: ".kdbx", Action: string(model.ActionSkip), Reason: "password database, manual review required"},
		{Name: "keychain", Extension: ".keychain", Action: string(model.ActionSkip), Reason: "keychain file, manual review required"},
		{Name: "macos-metadata", Pattern: "*/.DS_Store", Action: string(model.ActionSkip), Reason: "macOS system file"},
		{Name: "windows-thumbnails", Pattern: "*/Thumbs.db", Action: string(model.ActionSkip), Reason: "Windows system file"},
		{Name: "windows-folder-settings", Pattern: "*/desktop.ini", Action: string(model.ActionSkip), Reason: "Windows system file"},
	}
}

// Compile validates and compiles a rule list, prepending the built-in
// safety rules. Invalid rules are skipped and reported as warnings, not
// errors, so one bad rule never disables the rest.
func Compile(userRules []Rule) (*Set, []string) {
	all := append(Builtin(), userRules...)
	builtinCount := len(Builtin())

	set := &Set{}
	var warnings []string
	for i, r := range all {
		label := r.Name
		if label == "" {
			label = fmt.Sprintf("rule #%d", i-builtinCount+1)
		}

		if !hasPredicate(r) {
			warnings = append(warnings, fmt.Sprintf("%s: needs at least one condition (extension, pattern, regex, if_label, entity, entity_pattern)", label))
			continue
		}
		if r.Action != "" && !model.ValidActions[model.Action(r.Action)] {
			warnings = append(warnings, fmt.Sprintf("%s: invalid action %q", label, r.Action))
			continue
		}

		cr := compiledRule{rule: r}
		if r.Pattern != "" && strings.ContainsAny(r.Pattern, "*?") {
			re, err := regexp.Compile("(?i)" + globToRegex(r.Pattern))
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: bad pattern %q: %v", label, r.Pattern, err))
				continue
			}
			cr.patternRe = re
		}
		if r.Regex != "" {
			re, err := regexp.Compile(r.Regex)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: bad regex %q: %v", label, r.Regex, err))
				continue
			}
			cr.regexRe = re
		}
		if r.EntityPattern != "" {
			re, err := regexp.Compile("(?i)" + r.EntityPattern)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: bad entity_pattern %q: %v", label, r.EntityPattern, err))
				continue
			}
			cr.entityPattern = re
		}

		set.compiled = append(set.compiled, cr)
	}
	return set, warnings
}

// Apply evaluates rules in order and returns the first match's effect,
// or nil when no rule matches.
func (s *Set) Apply(path, currentLabel string, entities []string) *Override {
	if s == nil {
		return nil
	}
	for _, cr := range s.compiled {
		if !cr.matches(path, currentLabel, entities) {
			continue
		}
		name := cr.rule.Name
		if name == "" {
			name = cr.rule.Pattern
		}
		return &Override{
			Label:  cr.rule.Label,
			Action: model.Action(cr.rule.Action),
			Reason: cr.rule.Reason,
			Rule:   name,
		}
	}
	return nil
}

// Len reports how many rules survived compilation, built-ins included.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.compiled)
}

func (cr *compiledRule) matches(path, currentLabel string, entities []string) bool {
	r := cr.rule

	if r.Extension != "" {
		want := strings.ToLower(r.Extension)
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		lower := strings.ToLower(path)
		if !strings.HasSuffix(lower, want) {
			return false
		}
	}

	if r.Pattern != "" {
		if cr.patternRe != nil {
			if !cr.patternRe.MatchString(path) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(path), strings.ToLower(r.Pattern)) {
			return false
		}
	}

	if cr.regexRe != nil && !cr.regexRe.MatchString(path) {
		return false
	}

	if r.IfLabel != "" && currentLabel != r.IfLabel {
		return false
	}

	if r.Entity != "" {
		found := false
		for _, e := range entities {
			if e == r.Entity {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if cr.entityPattern != nil {
		found := false
		for _, e := range entities {
			if cr.entityPattern.MatchString(e) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func hasPredicate(r Rule) bool {
	return r.Extension != "" || r.Pattern != "" || r.Regex != "" ||
		r.IfLabel != "" || r.Entity != "" || r.EntityPattern != ""
}

// globToRegex translates a simple glob (* and ? only) into an unanchored
// regular expression.
func globToRegex(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
