// Package vision работает с пикселями: статистика областей, качество кадра, детектор на OpenCV.
package vision

import (
	"errors"
	"image"

	"road-vision/internal/domain/port"
)

// ErrQualityGate изображение непригодно для поиска дефектов
var ErrQualityGate = errors.New("quality gate failed")

// Analyzer реализация port.ImageAnalyzer на чистом Go
type Analyzer struct{}

func NewAnalyzer() Analyzer {
	return Analyzer{}
}

func (Analyzer) Sampler(img image.Image) port.RegionSampler {
	return NewImageSampler(img)
}

func (Analyzer) Quality(img image.Image) float64 {
	return FrameQuality(img)
}

var _ port.ImageAnalyzer = Analyzer{}
