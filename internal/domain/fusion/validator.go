package fusion

import (
	"unicode/utf8"

	"road-vision/internal/domain/entity"
)

// Rules правила отбора объединённых результатов
type Rules struct {
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
	MinConfidence       float64
	MinTextLength       int
	MaxTextLength       int
}

// DefaultRules правила для табличек и знаков
func DefaultRules() Rules {
	return Rules{
		MinWidth:      50,
		MinHeight:     50,
		MaxWidth:      800,
		MaxHeight:     400,
		MinConfidence: 0.3,
		MinTextLength: 3,
		MaxTextLength: 20,
	}
}

// Validate возвращает результаты, прошедшие все правила, в исходном порядке
func (r Rules) Validate(results []entity.IntegratedResult) []entity.IntegratedResult {
	valid := make([]entity.IntegratedResult, 0, len(results))
	for _, res := range results {
		if r.Accept(res) {
			valid = append(valid, res)
		}
	}
	return valid
}

// Accept проверяет размер рамки, итоговую уверенность и длину основного текста
func (r Rules) Accept(res entity.IntegratedResult) bool {
	w, h := res.Detection.BBox.Width(), res.Detection.BBox.Height()
	if w < r.MinWidth || h < r.MinHeight || w > r.MaxWidth || h > r.MaxHeight {
		return false
	}

	if res.FusedConfidence < r.MinConfidence {
		return false
	}

	if res.PrimaryText != nil {
		n := utf8.RuneCountInString(*res.PrimaryText)
		if n < r.MinTextLength || n > r.MaxTextLength {
			return false
		}
	}

	return true
}
