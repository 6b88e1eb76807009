package detect

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// TypeRule is the on-disk shape of one document type's detection rules:
// header patterns close a section during boundary detection, indicator
// patterns score the section during classification.
type TypeRule struct {
	Type       string   `yaml:"type"`
	Headers    []string `yaml:"headers"`
	Indicators []string `yaml:"indicators"`
}

type rulesetFile struct {
	Rules []TypeRule `yaml:"rules"`
}

type compiledRule struct {
	docType    domain.DocumentType
	indicators []*regexp.Regexp
}

// Ruleset is an immutable, compiled detection rule table. It is injected
// into the boundary detector and classifier at construction so tests can
// run with reduced tables.
type Ruleset struct {
	headers []*regexp.Regexp
	rules   []compiledRule
}

func NewRuleset(rules []TypeRule) (*Ruleset, error) {
	rs := &Ruleset{}
	for _, rule := range rules {
		docType := domain.DocumentType(strings.TrimSpace(rule.Type))
		if docType == "" {
			return nil, fmt.Errorf("ruleset: rule without type")
		}
		compiled := compiledRule{docType: docType}
		for _, pattern := range rule.Indicators {
			re, err := compileFold(pattern)
			if err != nil {
				return nil, fmt.Errorf("ruleset: indicator %q for %s: %w", pattern, docType, err)
			}
			compiled.indicators = append(compiled.indicators, re)
		}
		rs.rules = append(rs.rules, compiled)

		for _, pattern := range rule.Headers {
			re, err := compileFold(pattern)
			if err != nil {
				return nil, fmt.Errorf("ruleset: header %q for %s: %w", pattern, docType, err)
			}
			rs.headers = append(rs.headers, re)
		}
	}
	if len(rs.rules) == 0 {
		return nil, fmt.Errorf("ruleset: no rules defined")
	}
	return rs, nil
}

// LoadRuleset reads a YAML rule table. The file format mirrors TypeRule.
func LoadRuleset(r io.Reader) (*Ruleset, error) {
	var file rulesetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode ruleset yaml: %w", err)
	}
	return NewRuleset(file.Rules)
}

// DefaultRuleset returns the built-in trade-finance rule table.
func DefaultRuleset() *Ruleset {
	rs, err := NewRuleset(defaultRules())
	if err != nil {
		// The built-in table is covered by tests; a compile failure here
		// is a programming error.
		panic(err)
	}
	return rs
}

func (rs *Ruleset) isHeaderLine(line string) bool {
	for _, re := range rs.headers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func compileFold(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
