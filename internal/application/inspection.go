package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
	"road-vision/internal/domain/report"
	"road-vision/internal/domain/severity"
	"road-vision/internal/logger"
)

// InspectionService проверяет одно фото дороги
type InspectionService struct {
	detector   port.DefectDetector
	analyzer   port.ImageAnalyzer
	classifier severity.Classifier
	log        *logger.Logger
}

// InspectionOutput содержит отчёт по фото и картинку с подсветкой.
type InspectionOutput struct {
	Report      entity.RoadReport
	Detections  []entity.Detection
	Quality     float64
	Highlighted []byte
}

// NewInspectionService создаёт сервис, который управляет проверкой фото.
func NewInspectionService(detector port.DefectDetector, analyzer port.ImageAnalyzer, log *logger.Logger) *InspectionService {
	if log == nil {
		log = logger.NewNop()
	}
	return &InspectionService{
		detector:   detector,
		analyzer:   analyzer,
		classifier: severity.NewClassifier(),
		log:        log,
	}
}

// InspectPhoto находит дефекты, классифицирует их и строит отчёт по дороге.
// Ошибка подсветки не прерывает проверку: отчёт возвращается без картинки.
func (s *InspectionService) InspectPhoto(ctx context.Context, photo []byte) (*InspectionOutput, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	if s.analyzer == nil {
		return nil, errors.New("image analyzer is not configured")
	}

	img, format, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	raw, err := s.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect defects: %w", err)
	}

	sampler := s.analyzer.Sampler(img)
	detections := make([]entity.Detection, 0, len(raw))
	for _, det := range raw {
		detections = append(detections, s.classifier.Classify(det, sampler))
	}

	out := &InspectionOutput{
		Report:     report.BuildRoadReport(detections),
		Detections: detections,
		Quality:    s.analyzer.Quality(img),
	}

	if len(detections) > 0 {
		highlighted, err := s.detector.Highlight(img, detections)
		if err != nil {
			s.log.Warn("highlight failed", "error", err)
		}
		out.Highlighted = highlighted
	}

	s.log.Info("photo inspected",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"defects", len(detections),
		"condition", out.Report.Summary.RoadCondition.String(),
	)

	return out, nil
}
