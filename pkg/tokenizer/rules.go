package tokenizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RulesFile is the on-disk shape of a YAML rules file: a deployment can
// replace the built-in marker set and extend the named-entity table without
// touching code, the same way the reference tokenizer's own rules file
// customizes its token vocabulary. Built-in entity names cannot be removed
// or redefined.
type RulesFile struct {
	Markers       string       `yaml:"markers"`
	NamedEntities []EntityRule `yaml:"named_entities"`
}

// EntityRule names one additional HTML named character reference
// recognised by &name; entities. A name already in the built-in table is
// rejected by ApplyRulesToDefaults.
type EntityRule struct {
	Name string `yaml:"name"`
}

// TokenizerRules holds the customizable parts of the tokenizer: which
// characters the main dispatch loop treats as potentially significant, and
// which &name; references resolve to a real character.
type TokenizerRules struct {
	markers       string
	namedEntities map[string]bool
}

// DefaultRules returns the built-in rules: the standard wikicode marker set
// and the representative HTML5 named-entity subset in entities.go.
func DefaultRules() *TokenizerRules {
	return &TokenizerRules{
		markers:       defaultMarkers,
		namedEntities: defaultNamedEntities,
	}
}

// LoadRulesFile loads and parses a YAML rules file.
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: failed to read rules file %q: %w", filename, err)
	}
	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("tokenizer: failed to parse YAML in rules file %q: %w", filename, err)
	}
	return &rf, nil
}

// ApplyRulesToDefaults merges a RulesFile over the built-in defaults. An
// empty Markers field leaves the default marker set untouched. Each entry
// under named_entities extends the built-in table; a name already present
// among the defaults is a load-time error, the same way the reference
// tokenizer's rule loader rejects a token defined in both its built-in and
// custom rule sets rather than letting one silently shadow the other.
func ApplyRulesToDefaults(rf *RulesFile) (*TokenizerRules, error) {
	rules := DefaultRules()

	if rf.Markers != "" {
		rules.markers = rf.Markers
	}

	if len(rf.NamedEntities) > 0 {
		merged := make(map[string]bool, len(rules.namedEntities)+len(rf.NamedEntities))
		for name := range rules.namedEntities {
			merged[name] = true
		}
		for _, entry := range rf.NamedEntities {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				return nil, fmt.Errorf("tokenizer: named_entities entry has an empty name")
			}
			if rules.namedEntities[name] {
				return nil, fmt.Errorf("tokenizer: named entity %q is defined in both the defaults and the rules file", name)
			}
			if merged[name] {
				return nil, fmt.Errorf("tokenizer: named entity %q is defined more than once in the rules file", name)
			}
			merged[name] = true
		}
		rules.namedEntities = merged
	}

	return rules, nil
}

// markerSet returns the characters the main dispatch loop checks against
// before ever trying a construct-specific rule.
func (r *TokenizerRules) markerSet() string {
	return r.markers
}

// isNamedEntity reports whether name is a recognised &name; character
// reference under these rules.
func (r *TokenizerRules) isNamedEntity(name string) bool {
	return r.namedEntities[name]
}
