package port

import (
	"context"
	"image"

	"road-vision/internal/domain/entity"
)

// DefectDetector интерфейс детектора дефектов дороги на изображении
type DefectDetector interface {
	// Detect находит дефекты и возвращает неклассифицированные детекции
	Detect(ctx context.Context, img image.Image) ([]entity.Detection, error)

	// Highlight рисует рамки детекций и возвращает JPEG
	Highlight(img image.Image, detections []entity.Detection) ([]byte, error)
}
