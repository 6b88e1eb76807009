package extract

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

const (
	// Preview length for segments without a field table.
	contentPreviewChars = 200

	extractionFailedMessage = "Field extraction failed"

	MethodRuleBased      = "rule_based"
	MethodContentPreview = "content_preview"
)

// FieldRule names one field and the pattern whose first capture group yields
// its value. Patterns are label-based and read up to end of line.
type FieldRule struct {
	Name    string
	Pattern string
}

type compiledFieldRule struct {
	name string
	re   *regexp.Regexp
}

// Extractor applies a per-document-type field rule table to segment text.
// The table is injected at construction; tests can run with reduced tables.
type Extractor struct {
	rules map[domain.DocumentType][]compiledFieldRule
}

func NewExtractor(rules map[domain.DocumentType][]FieldRule) (*Extractor, error) {
	compiled := make(map[domain.DocumentType][]compiledFieldRule, len(rules))
	for docType, fieldRules := range rules {
		for _, rule := range fieldRules {
			pattern := rule.Pattern
			if !strings.HasPrefix(pattern, "(?i)") {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("field rule %s/%s: %w", docType, rule.Name, err)
			}
			compiled[docType] = append(compiled[docType], compiledFieldRule{name: rule.Name, re: re})
		}
	}
	return &Extractor{rules: compiled}, nil
}

// DefaultExtractor returns an extractor with the built-in trade-finance
// field tables.
func DefaultExtractor() *Extractor {
	e, err := NewExtractor(defaultFieldRules())
	if err != nil {
		panic(err)
	}
	return e
}

// Extract never returns an empty field set and never fails: unmatched rules
// yield nil values, unknown types yield a content preview, and an internal
// panic downgrades to a single error field.
func (e *Extractor) Extract(text string, docType domain.DocumentType) (out domain.ExtractedFieldSet) {
	defer func() {
		if r := recover(); r != nil {
			msg := extractionFailedMessage
			out = domain.ExtractedFieldSet{
				Type:        docType,
				Fields:      []domain.Field{{Name: "error", Value: &msg, DataType: "text"}},
				TextLength:  len(text),
				Method:      MethodRuleBased,
				ExtractedAt: time.Now().UTC(),
			}
		}
	}()

	rules, ok := e.rules[docType]
	if !ok || len(rules) == 0 {
		return e.genericFieldSet(text, docType)
	}

	fields := make([]domain.Field, 0, len(rules))
	for _, rule := range rules {
		field := domain.Field{Name: rule.name}
		if m := rule.re.FindStringSubmatch(text); len(m) > 1 {
			value := strings.TrimSpace(m[1])
			if value != "" {
				field.Value = &value
				field.DataType = detectDataType(value)
				field.Confidence = fieldConfidence(value, field.DataType)
			}
		}
		fields = append(fields, field)
	}

	return domain.ExtractedFieldSet{
		Type:        docType,
		Fields:      fields,
		TextLength:  len(text),
		Method:      MethodRuleBased,
		ExtractedAt: time.Now().UTC(),
	}
}

func (e *Extractor) genericFieldSet(text string, docType domain.DocumentType) domain.ExtractedFieldSet {
	preview := text
	if len(preview) > contentPreviewChars {
		preview = preview[:contentPreviewChars]
	}
	return domain.ExtractedFieldSet{
		Type:        docType,
		Fields:      []domain.Field{{Name: "content", Value: &preview, Confidence: 0.5, DataType: "text"}},
		TextLength:  len(text),
		Method:      MethodContentPreview,
		ExtractedAt: time.Now().UTC(),
	}
}

var (
	integerRe   = regexp.MustCompile(`^\d+$`)
	decimalRe   = regexp.MustCompile(`^[\d,]+\.\d+$`)
	dateRe      = regexp.MustCompile(`^\d{1,2}[\/\-.]\d{1,2}[\/\-.]\d{2,4}$`)
	referenceRe = regexp.MustCompile(`^[A-Z0-9\-\/]+$`)
)

func detectDataType(value string) string {
	switch {
	case integerRe.MatchString(value):
		return "integer"
	case decimalRe.MatchString(value):
		return "decimal"
	case dateRe.MatchString(value):
		return "date"
	case referenceRe.MatchString(value):
		return "reference"
	case len(value) > 50:
		return "text_long"
	default:
		return "text"
	}
}

// fieldConfidence scores one extracted value. Typed values (references,
// dates, amounts) and longer values score higher, very short values lower.
func fieldConfidence(value, dataType string) float64 {
	c := 0.7
	switch dataType {
	case "reference", "date", "decimal", "integer":
		c += 0.1
	}
	if len(value) < 3 {
		c -= 0.2
	}
	if len(value) > 10 {
		c += 0.1
	}
	if c > 1.0 {
		c = 1.0
	}
	return math.Round(c*100) / 100
}
