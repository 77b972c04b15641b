// Package stream читает поток детекций, подготовленный внешним детектором и OCR.
//
// Формат: один JSON-документ
//
//	{"fps": 30, "total_frames": 300, "frames": [{"frame_number": 0, "frame_quality": 0.7,
//	  "detections": [{"bbox": [x1,y1,x2,y2], "confidence": 0.8, "class_name": "pothole",
//	                  "region": {"mean": 90.5, "std": 30.1}}],
//	  "texts": [{"bbox": [x1,y1,x2,y2], "text": "STOP", "confidence": 0.9}]}]}
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

type document struct {
	FPS         float64    `json:"fps"`
	TotalFrames uint64     `json:"total_frames"`
	Frames      []frameDoc `json:"frames"`
}

type frameDoc struct {
	FrameNumber  uint64         `json:"frame_number"`
	FrameQuality *float64       `json:"frame_quality"`
	Detections   []detectionDoc `json:"detections"`
	Texts        []textDoc      `json:"texts"`
}

type detectionDoc struct {
	BBox       []float64           `json:"bbox"`
	Confidence float64             `json:"confidence"`
	ClassName  string              `json:"class_name"`
	Region     *entity.RegionStats `json:"region"`
}

type textDoc struct {
	BBox       []float64 `json:"bbox"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
}

// DefaultFrameQuality качество кадра, если поток его не указал
const DefaultFrameQuality = 0.5

// Source FrameSource поверх разобранного документа.
// Все кадры проверяются при открытии, поэтому некорректная геометрия не доходит до трекинга.
type Source struct {
	meta   entity.VideoMeta
	frames []port.Frame
	pos    int
}

// Open читает и проверяет документ целиком
func Open(r io.Reader) (*Source, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode stream: %w", err)
	}
	if math.IsNaN(doc.FPS) || doc.FPS < 0 {
		return nil, fmt.Errorf("decode stream: invalid fps %v", doc.FPS)
	}

	src := &Source{
		meta:   entity.VideoMeta{FPS: doc.FPS, TotalFrames: doc.TotalFrames},
		frames: make([]port.Frame, 0, len(doc.Frames)),
	}
	for i, fd := range doc.Frames {
		frame, err := fd.build()
		if err != nil {
			return nil, fmt.Errorf("frame #%d (number %d): %w", i, fd.FrameNumber, err)
		}
		src.frames = append(src.frames, frame)
	}
	if src.meta.TotalFrames == 0 && len(src.frames) > 0 {
		src.meta.TotalFrames = src.frames[len(src.frames)-1].Number + 1
	}

	return src, nil
}

// OpenFile открывает документ с диска
func OpenFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", path, err)
	}
	defer f.Close()

	return Open(f)
}

func (s *Source) Meta() entity.VideoMeta {
	return s.meta
}

// Next возвращает следующий кадр или io.EOF
func (s *Source) Next(ctx context.Context) (*port.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := &s.frames[s.pos]
	s.pos++
	return f, nil
}

// Len число кадров в документе
func (s *Source) Len() int {
	return len(s.frames)
}

func (fd frameDoc) build() (port.Frame, error) {
	quality := DefaultFrameQuality
	if fd.FrameQuality != nil {
		quality = *fd.FrameQuality
		if math.IsNaN(quality) {
			return port.Frame{}, fmt.Errorf("frame quality is NaN")
		}
	}

	frame := port.Frame{
		Number:     fd.FrameNumber,
		Quality:    entity.Clamp(quality, 0, 1),
		Detections: make([]entity.Detection, 0, len(fd.Detections)),
		Texts:      make([]entity.TextResult, 0, len(fd.Texts)),
	}
	regions := make(RegionTable, len(fd.Detections))

	for j, dd := range fd.Detections {
		bbox, err := toBox(dd.BBox)
		if err != nil {
			return port.Frame{}, fmt.Errorf("detection %d: %w", j, err)
		}
		det, err := entity.NewDetection(bbox, dd.Confidence, dd.ClassName)
		if err != nil {
			return port.Frame{}, fmt.Errorf("detection %d: %w", j, err)
		}
		frame.Detections = append(frame.Detections, det)
		if dd.Region != nil {
			regions[bbox] = *dd.Region
		}
	}

	for j, td := range fd.Texts {
		bbox, err := toBox(td.BBox)
		if err != nil {
			return port.Frame{}, fmt.Errorf("text %d: %w", j, err)
		}
		tr, err := entity.NewTextResult(bbox, td.Text, td.Confidence)
		if err != nil {
			return port.Frame{}, fmt.Errorf("text %d: %w", j, err)
		}
		frame.Texts = append(frame.Texts, tr)
	}

	frame.Sampler = regions
	return frame, nil
}

func toBox(v []float64) (entity.BoundingBox, error) {
	if len(v) != 4 {
		return entity.BoundingBox{}, fmt.Errorf("%w: expected 4 coordinates, got %d", entity.ErrInvalidGeometry, len(v))
	}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) || math.Abs(c) > math.MaxInt32 {
			return entity.BoundingBox{}, fmt.Errorf("%w: coordinate %v", entity.ErrInvalidGeometry, c)
		}
	}
	return entity.NewBoundingBox(int(v[0]), int(v[1]), int(v[2]), int(v[3]))
}

// RegionTable статистика областей, заранее посчитанная детектором
type RegionTable map[entity.BoundingBox]entity.RegionStats

// Sample возвращает entity.ErrEmptyRegion для рамок без статистики
func (t RegionTable) Sample(bbox entity.BoundingBox) (entity.RegionStats, error) {
	stats, ok := t[bbox]
	if !ok {
		return entity.RegionStats{}, fmt.Errorf("%w: no statistics for %s", entity.ErrEmptyRegion, bbox)
	}
	return stats, nil
}

var _ port.FrameSource = (*Source)(nil)
