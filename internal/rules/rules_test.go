package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesift/filesift/internal/model"
)

func TestBuiltinSafetyRules(t *testing.T) {
	set, warnings := Compile(nil)
	require.Empty(t, warnings)

	tests := []struct {
		name string
		path string
	}{
		{"password database", "/in/vault/passwords.kdbx"},
		{"keychain", "/in/login.keychain"},
		{"macOS metadata", "/in/photos/.DS_Store"},
		{"windows thumbnails", "/in/photos/Thumbs.db"},
		{"windows folder settings", "/in/docs/desktop.ini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov := set.Apply(tt.path, "documents", nil)
			require.NotNil(t, ov)
			assert.Equal(t, model.ActionSkip, ov.Action)
		})
	}
}

func TestBuiltinRulesDoNotMatchOrdinaryFiles(t *testing.T) {
	set, _ := Compile(nil)
	assert.Nil(t, set.Apply("/in/report.pdf", "documents", nil))
}

func TestFirstMatchWins(t *testing.T) {
	set, warnings := Compile([]Rule{
		{Name: "first", Pattern: "*/ADP/*", Label: "payroll", Action: "Move"},
		{Name: "second", Pattern: "*/ADP/*", Label: "finance", Action: "Suggest"},
	})
	require.Empty(t, warnings)

	ov := set.Apply("/in/ADP/paystub.pdf", "documents", nil)
	require.NotNil(t, ov)
	assert.Equal(t, "first", ov.Rule)
	assert.Equal(t, "payroll", ov.Label)
	assert.Equal(t, model.ActionMove, ov.Action)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		path     string
		label    string
		entities []string
		want     bool
	}{
		{
			name: "extension without leading dot",
			rule: Rule{Name: "r", Extension: "pdf", Action: "Move"},
			path: "/in/a.PDF",
			want: true,
		},
		{
			name: "extension mismatch",
			rule: Rule{Name: "r", Extension: ".pdf", Action: "Move"},
			path: "/in/a.docx",
			want: false,
		},
		{
			name: "substring pattern is case-insensitive",
			rule: Rule{Name: "r", Pattern: "taxes", Action: "Move"},
			path: "/in/Taxes/2023.pdf",
			want: true,
		},
		{
			name: "glob pattern",
			rule: Rule{Name: "r", Pattern: "*/Receipts/*.jpg", Action: "Move"},
			path: "/in/Receipts/lunch.jpg",
			want: true,
		},
		{
			name: "regex predicate",
			rule: Rule{Name: "r", Regex: `W2[_\-]\d{4}`, Label: "taxes"},
			path: "/in/W2-2023.pdf",
			want: true,
		},
		{
			name:  "if_label gates on current label",
			rule:  Rule{Name: "r", IfLabel: "finance", Pattern: "statement", Action: "Move"},
			path:  "/in/statement.pdf",
			label: "documents",
			want:  false,
		},
		{
			name:     "entity membership",
			rule:     Rule{Name: "r", Entity: "Chase", Label: "finance"},
			path:     "/in/Chase/s.pdf",
			entities: []string{"Chase"},
			want:     true,
		},
		{
			name:     "entity pattern",
			rule:     Rule{Name: "r", EntityPattern: `^Client`, Label: "clients"},
			path:     "/in/x.pdf",
			entities: []string{"ClientA"},
			want:     true,
		},
		{
			name: "all predicates must hold",
			rule: Rule{Name: "r", Extension: ".pdf", Pattern: "taxes", Action: "Move"},
			path: "/in/taxes/a.docx",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, warnings := Compile([]Rule{tt.rule})
			require.Empty(t, warnings)

			ov := set.Apply(tt.path, tt.label, tt.entities)
			if tt.want {
				require.NotNil(t, ov)
				assert.Equal(t, "r", ov.Rule)
			} else {
				assert.Nil(t, ov)
			}
		})
	}
}

func TestCompileSkipsInvalidRules(t *testing.T) {
	set, warnings := Compile([]Rule{
		{Name: "no-conditions", Label: "x"},
		{Name: "bad-action", Pattern: "a", Action: "Delete"},
		{Name: "bad-regex", Regex: "[unclosed", Action: "Skip"},
		{Name: "good", Pattern: "invoices", Action: "Move"},
	})

	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "no-conditions")
	assert.Contains(t, warnings[1], "invalid action")
	assert.Contains(t, warnings[2], "bad regex")

	// Built-ins plus the one valid user rule survive.
	assert.Equal(t, len(Builtin())+1, set.Len())
	ov := set.Apply("/in/invoices/march.pdf", "documents", nil)
	require.NotNil(t, ov)
	assert.Equal(t, "good", ov.Rule)
}

func TestLoadRulesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - name: payroll
    pattern: "*/ADP/*"
    label: payroll
    action: Move
  - name: protect-taxes
    regex: 'W2[_\-]\d{4}'
    action: Suggest
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, len(Builtin())+2, set.Len())

	ov := set.Apply("/in/ADP/stub.pdf", "documents", nil)
	require.NotNil(t, ov)
	assert.Equal(t, "payroll", ov.Label)
}

func TestLoadMissingFileUsesBuiltins(t *testing.T) {
	set, warnings, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, len(Builtin()), set.Len())
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [unclosed"), 0o644))

	_, _, err := Load(path)
	assert.Error(t, err)
}
