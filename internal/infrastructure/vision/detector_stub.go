//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// ErrGoCVDisabled сборка без тега gocv
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// GoCVDetector заглушка детектора для сборки без OpenCV
type GoCVDetector struct{}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	return nil, ErrGoCVDisabled
}

// Highlight возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Highlight(img image.Image, detections []entity.Detection) ([]byte, error) {
	return nil, ErrGoCVDisabled
}

// NewImageAnalyzer анализатор изображений для текущей сборки
func NewImageAnalyzer() port.ImageAnalyzer {
	return NewAnalyzer()
}

var _ port.DefectDetector = (*GoCVDetector)(nil)
