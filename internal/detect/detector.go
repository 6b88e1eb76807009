package detect

import (
	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// Detector runs boundary splitting and per-section classification as one
// step, yielding the ordered form segments of an extracted text.
type Detector struct {
	boundary   *BoundaryDetector
	classifier *Classifier
}

func NewDetector(rules *Ruleset) *Detector {
	return &Detector{
		boundary:   NewBoundaryDetector(rules),
		classifier: NewClassifier(rules),
	}
}

func (d *Detector) DetectForms(text string) []domain.FormSegment {
	sections := d.boundary.Split(text)
	segments := make([]domain.FormSegment, 0, len(sections))
	for i, section := range sections {
		docType := d.classifier.Classify(section)
		segments = append(segments, domain.FormSegment{
			Seq:        i,
			Type:       docType,
			Confidence: Confidence(section, docType),
			Text:       section,
		})
	}
	return segments
}
