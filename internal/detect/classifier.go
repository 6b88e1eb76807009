package detect

import (
	"math"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// Classifier assigns a document type to a text section by counting how many
// of each type's indicator patterns match. Pure function of (text, ruleset).
type Classifier struct {
	rules *Ruleset
}

func NewClassifier(rules *Ruleset) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the type with the strictly highest indicator match count.
// Ties keep the earlier type in the ruleset order; zero matches classify as
// Unclassified.
func (c *Classifier) Classify(text string) domain.DocumentType {
	best := domain.TypeUnclassified
	bestScore := 0

	for _, rule := range c.rules.rules {
		score := 0
		for _, re := range rule.indicators {
			if re.MatchString(text) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = rule.docType
		}
	}
	return best
}

// Confidence scores a classified section in [0,1]. Longer sections are more
// likely to be genuine complete forms; an unresolved type halves the
// length-based score. The ceiling stays at 0.90: this is a heuristic, not a
// calibrated probability.
func Confidence(text string, docType domain.DocumentType) float64 {
	lengthBoost := float64(len(text)) / 1000.0
	if lengthBoost > 1.0 {
		lengthBoost = 1.0
	}
	score := 0.7 + lengthBoost*0.2

	if docType == domain.TypeUnclassified {
		score *= 0.5
	}
	return math.Round(score*100) / 100
}
