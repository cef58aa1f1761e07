package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Rule is a single glob pattern with an include or exclude effect. Patterns
// use doublestar semantics, so "**/vendor/**" matches at any depth.
type Rule struct {
	Pattern string
	Exclude bool
}

// RuleSet is an ordered list of rules. The last matching rule wins; paths
// matched by no rule are included.
type RuleSet struct {
	rules []Rule
}

// defaultExcludes covers version-control metadata, dependency caches, build
// output, test trees, and temporary files.
var defaultExcludes = []string{
	"**/.git/**",
	"**/.hg/**",
	"**/.svn/**",
	"**/vendor/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/build/**",
	"**/dist/**",
	"**/target/**",
	"**/testdata/**",
	"**/test/**",
	"**/tests/**",
	"**/*_test.go",
	"**/*.tmp",
	"**/*.swp",
	"**/.DS_Store",
	".codewiki.yaml",
}

// DefaultRules returns the default rule set: everything included except the
// standard exclusion globs.
func DefaultRules() RuleSet {
	rs := RuleSet{}
	for _, p := range defaultExcludes {
		rs.rules = append(rs.rules, Rule{Pattern: p, Exclude: true})
	}
	return rs
}

// Add appends a rule. Later rules take precedence over earlier ones.
func (rs *RuleSet) Add(pattern string, exclude bool) {
	rs.rules = append(rs.rules, Rule{Pattern: pattern, Exclude: exclude})
}

// Include reports whether the slash-normalized relative path survives the
// rule set.
func (rs *RuleSet) Include(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	include := true
	for _, r := range rs.rules {
		ok, err := doublestar.Match(r.Pattern, relPath)
		if err != nil || !ok {
			continue
		}
		include = !r.Exclude
	}
	return include
}

// overrideFile is the repo-local rule override file read from the scan root.
const overrideFile = ".codewiki.yaml"

// ruleOverrides mirrors the .codewiki.yaml schema.
type ruleOverrides struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LoadOverrides merges repo-local include/exclude patterns from
// root/.codewiki.yaml into rs. A missing file is not an error.
func (rs *RuleSet) LoadOverrides(root string) error {
	data, err := os.ReadFile(filepath.Join(root, overrideFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", overrideFile, err)
	}

	var ov ruleOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("parsing %s: %w", overrideFile, err)
	}

	for _, p := range ov.Exclude {
		rs.Add(p, true)
	}
	for _, p := range ov.Include {
		rs.Add(p, false)
	}
	return nil
}
