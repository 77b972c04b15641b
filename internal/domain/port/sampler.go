package port

import (
	"image"

	"road-vision/internal/domain/entity"
)

// RegionSampler считает яркостную статистику области изображения.
// Для пустой или выходящей за границы области возвращает entity.ErrEmptyRegion.
type RegionSampler interface {
	Sample(bbox entity.BoundingBox) (entity.RegionStats, error)
}

// ImageAnalyzer даёт доступ к статистике одного декодированного изображения
type ImageAnalyzer interface {
	// Sampler возвращает сэмплер областей изображения
	Sampler(img image.Image) RegionSampler

	// Quality оценивает пригодность кадра для анализа, результат в [0,1]
	Quality(img image.Image) float64
}
