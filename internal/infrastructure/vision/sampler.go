package vision

import (
	"fmt"
	"image"
	"image/draw"

	"gonum.org/v1/gonum/stat"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// ImageSampler считает статистику областей изображения в градациях серого.
// Рамка обрезается по границам изображения; пустой остаток даёт entity.ErrEmptyRegion.
type ImageSampler struct {
	gray *image.Gray
	buf  []float64
}

// NewImageSampler один раз переводит изображение в серое
func NewImageSampler(img image.Image) *ImageSampler {
	return &ImageSampler{gray: toGray(img)}
}

func (s *ImageSampler) Sample(bbox entity.BoundingBox) (entity.RegionStats, error) {
	rect := image.Rect(bbox.X1, bbox.Y1, bbox.X2, bbox.Y2).Intersect(s.gray.Bounds())
	if rect.Empty() {
		return entity.RegionStats{}, fmt.Errorf("%w: %s outside %v", entity.ErrEmptyRegion, bbox, s.gray.Bounds())
	}

	s.buf = s.buf[:0]
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := s.gray.Pix[s.gray.PixOffset(rect.Min.X, y):s.gray.PixOffset(rect.Max.X, y)]
		for _, p := range row {
			s.buf = append(s.buf, float64(p))
		}
	}

	mean, std := stat.PopMeanStdDev(s.buf, nil)
	return entity.RegionStats{Mean: mean, StdDev: std}, nil
}

// toGray переводит изображение в серое с весами 0.299/0.587/0.114
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

var _ port.RegionSampler = (*ImageSampler)(nil)
