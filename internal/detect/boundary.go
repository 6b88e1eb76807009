package detect

import (
	"regexp"
	"strings"
)

const (
	// A header line only closes the running section once the section has
	// accumulated this much text, so short preambles don't force splits.
	minSectionChars = 100

	// Bounds for the paragraph-packing fallback.
	minPackChars = 500
	maxPackChars = 3000
)

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// BoundaryDetector splits raw extracted text into per-form sections using
// the ruleset's header patterns, with a paragraph-packing fallback when no
// header is present.
type BoundaryDetector struct {
	rules *Ruleset
}

func NewBoundaryDetector(rules *Ruleset) *BoundaryDetector {
	return &BoundaryDetector{rules: rules}
}

// Split returns the ordered, non-empty sections of text. Empty input yields
// an empty slice; headerless input falls back to paragraph packing, which
// never produces zero sections for non-empty input. Any header sighting
// keeps the header path: a document whose only header opens the file comes
// back as one whole section, not packed paragraphs.
func (d *BoundaryDetector) Split(text string) []string {
	var sections []string
	var current strings.Builder
	headerSeen := false

	for _, line := range strings.Split(text, "\n") {
		if d.rules.isHeaderLine(line) {
			headerSeen = true
			if current.Len() > minSectionChars {
				if sec := strings.TrimSpace(current.String()); sec != "" {
					sections = append(sections, sec)
				}
				current.Reset()
			}
		}
		current.WriteString(line)
		current.WriteString("\n")
	}

	if !headerSeen {
		return packParagraphs(text)
	}

	if sec := strings.TrimSpace(current.String()); sec != "" {
		sections = append(sections, sec)
	}
	return sections
}

// packParagraphs greedily groups blank-line-delimited paragraphs into
// sections between minPackChars and maxPackChars. A lone paragraph is never
// split, so an unbroken block comes back as one section.
func packParagraphs(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var sections []string
	var current string
	for _, para := range paragraphSep.Split(trimmed, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current == "" {
			current = para
			continue
		}
		if len(current) >= minPackChars && len(current)+len(para) > maxPackChars {
			sections = append(sections, current)
			current = para
			continue
		}
		current = current + "\n\n" + para
	}
	if current != "" {
		sections = append(sections, current)
	}
	return sections
}
