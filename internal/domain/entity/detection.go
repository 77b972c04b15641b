package entity

import (
	"fmt"
	"math"
)

// Detection дефект дороги, найденный внешним детектором на одном кадре.
// После классификации содержит уровень серьёзности, риск и оценки глубины и площади.
type Detection struct {
	BBox          BoundingBox `json:"bbox"`
	Confidence    float64     `json:"confidence"`
	ClassName     string      `json:"class_name"`
	Severity      Severity    `json:"severity_level"`
	RiskScore     float64     `json:"risk_score"`
	DepthEstimate float64     `json:"depth_estimate"`
	AreaEstimate  float64     `json:"area_estimate"`
}

// NewDetection создаёт неклассифицированную детекцию с проверкой входных данных
func NewDetection(bbox BoundingBox, confidence float64, className string) (Detection, error) {
	if !bbox.Valid() {
		return Detection{}, fmt.Errorf("%w: %s", ErrInvalidGeometry, bbox)
	}
	if err := checkConfidence(confidence); err != nil {
		return Detection{}, err
	}
	return Detection{BBox: bbox, Confidence: confidence, ClassName: className}, nil
}

// Classified сообщает, прошла ли детекция классификацию серьёзности
func (d Detection) Classified() bool {
	return d.Severity != SeverityNone
}

// TextResult фрагмент текста, распознанный внешним OCR
type TextResult struct {
	BBox       BoundingBox `json:"bbox"`
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
}

// NewTextResult создаёт результат OCR с проверкой входных данных
func NewTextResult(bbox BoundingBox, text string, confidence float64) (TextResult, error) {
	if !bbox.Valid() {
		return TextResult{}, fmt.Errorf("%w: %s", ErrInvalidGeometry, bbox)
	}
	if err := checkConfidence(confidence); err != nil {
		return TextResult{}, err
	}
	return TextResult{BBox: bbox, Text: text, Confidence: confidence}, nil
}

// MatchedText текст, сопоставленный детекции, с мерой перекрытия
type MatchedText struct {
	TextResult
	Overlap float64 `json:"overlap"`
}

// IntegratedResult детекция, объединённая с найденным внутри неё текстом.
// Живёт в пределах одного кадра.
type IntegratedResult struct {
	Detection       Detection     `json:"detection"`
	MatchedTexts    []MatchedText `json:"matched_texts"`
	PrimaryText     *string       `json:"primary_text,omitempty"`
	FusedConfidence float64       `json:"fused_confidence"`
}

// RegionStats яркостная статистика области изображения в градациях серого
type RegionStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
}

func checkConfidence(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 || c > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, c)
	}
	return nil
}
