package port

import (
	"context"

	"road-vision/internal/domain/entity"
)

// Frame один кадр потока: сырые детекции, тексты OCR и способ получить статистику областей
type Frame struct {
	Number     uint64
	Quality    float64
	Detections []entity.Detection
	Texts      []entity.TextResult
	Sampler    RegionSampler
}

// FrameSource источник кадров видео. Next возвращает io.EOF после последнего кадра.
type FrameSource interface {
	Meta() entity.VideoMeta
	Next(ctx context.Context) (*Frame, error)
}
