package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/filesift/filesift/internal/common"
)

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads user rules from a YAML file and compiles them together
// with the built-ins. A missing or empty path yields the built-ins
// alone. Malformed YAML is a hard error; individually invalid rules
// only produce warnings.
func Load(path string) (*Set, []string, error) {
	if path == "" {
		set, warnings := Compile(nil)
		return set, warnings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			set, warnings := Compile(nil)
			return set, warnings, nil
		}
		return nil, nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing %s: %v", common.ErrInvalidConfig, path, err)
	}

	set, warnings := Compile(f.Rules)
	return set, warnings, nil
}
