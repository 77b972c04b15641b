// Package fusion объединяет рамки детектора с рамками текста от OCR.
package fusion

import (
	"gonum.org/v1/gonum/stat"

	"road-vision/internal/domain/entity"
)

const (
	// DefaultOverlapThreshold минимальное перекрытие, при котором текст относится к детекции
	DefaultOverlapThreshold = 0.3

	primaryConfidenceWeight = 0.7
	primaryOverlapWeight    = 0.3

	fusedDetectionWeight = 0.4
	fusedTextWeight      = 0.4
	fusedOverlapWeight   = 0.2

	// множитель уверенности, когда текст не подтвердил детекцию
	unmatchedPenalty = 0.5
)

// Integrator сопоставляет детекции с текстами на одном кадре.
// Не хранит состояния между вызовами.
type Integrator struct {
	OverlapThreshold float64
}

// NewIntegrator создаёт интегратор с порогом перекрытия по умолчанию
func NewIntegrator() Integrator {
	return Integrator{OverlapThreshold: DefaultOverlapThreshold}
}

// Integrate возвращает по одному результату на каждую детекцию в исходном порядке.
func (in Integrator) Integrate(detections []entity.Detection, texts []entity.TextResult) []entity.IntegratedResult {
	results := make([]entity.IntegratedResult, 0, len(detections))
	for _, det := range detections {
		matched := in.match(det, texts)
		results = append(results, entity.IntegratedResult{
			Detection:       det,
			MatchedTexts:    matched,
			PrimaryText:     selectPrimary(matched),
			FusedConfidence: fuseConfidence(det, matched),
		})
	}
	return results
}

// match оставляет тексты с перекрытием строго выше порога, порядок входа сохраняется
func (in Integrator) match(det entity.Detection, texts []entity.TextResult) []entity.MatchedText {
	var matched []entity.MatchedText
	for _, tr := range texts {
		overlap := entity.OverlapRatio(det.BBox, tr.BBox)
		if overlap > in.OverlapThreshold {
			matched = append(matched, entity.MatchedText{TextResult: tr, Overlap: overlap})
		}
	}
	return matched
}

// selectPrimary выбирает текст с максимальным 0.7*confidence + 0.3*overlap.
// При равенстве остаётся первый найденный.
func selectPrimary(matched []entity.MatchedText) *string {
	if len(matched) == 0 {
		return nil
	}
	best := 0
	bestScore := primaryScore(matched[0])
	for i := 1; i < len(matched); i++ {
		if s := primaryScore(matched[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	text := matched[best].Text
	return &text
}

func primaryScore(m entity.MatchedText) float64 {
	return primaryConfidenceWeight*m.Confidence + primaryOverlapWeight*m.Overlap
}

func fuseConfidence(det entity.Detection, matched []entity.MatchedText) float64 {
	if len(matched) == 0 {
		return entity.Clamp(det.Confidence*unmatchedPenalty, 0, 1)
	}

	confidences := make([]float64, len(matched))
	overlaps := make([]float64, len(matched))
	for i, m := range matched {
		confidences[i] = m.Confidence
		overlaps[i] = m.Overlap
	}

	fused := fusedDetectionWeight*det.Confidence +
		fusedTextWeight*stat.Mean(confidences, nil) +
		fusedOverlapWeight*stat.Mean(overlaps, nil)
	return entity.Clamp(fused, 0, 1)
}
