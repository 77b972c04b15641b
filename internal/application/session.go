package app

import (
	"fmt"

	"github.com/google/uuid"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/fusion"
	"road-vision/internal/domain/port"
	"road-vision/internal/domain/report"
	"road-vision/internal/domain/severity"
	"road-vision/internal/domain/tracking"
	"road-vision/internal/logger"
)

// SessionConfig параметры обработки одного видео
type SessionConfig struct {
	Tracking         tracking.Config
	OverlapThreshold float64
	Rules            fusion.Rules
	// FrameSkip обрабатывать только кадры с номером, кратным FrameSkip
	FrameSkip int
	// MaxFrames лимит обработанных кадров; 0 без ограничения
	MaxFrames int
}

// DefaultSessionConfig значения по умолчанию
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Tracking:         tracking.DefaultConfig(),
		OverlapThreshold: fusion.DefaultOverlapThreshold,
		Rules:            fusion.DefaultRules(),
		FrameSkip:        1,
	}
}

// Session конвейер одного видео: слияние с OCR, классификация, трекинг, сбор покадровых итогов.
// Не потокобезопасна; кадры подаются строго по возрастанию номера.
type Session struct {
	ID string

	cfg        SessionConfig
	meta       entity.VideoMeta
	integrator fusion.Integrator
	classifier severity.Classifier
	tracker    *tracking.Manager
	aggregator report.Aggregator
	log        *logger.Logger

	frames    []entity.FrameAnalysis
	seen      uint64
	lastFrame uint64
	started   bool
	err       error
}

// NewSession создаёт сессию для видео с известными метаданными
func NewSession(cfg SessionConfig, meta entity.VideoMeta, log *logger.Logger) *Session {
	if cfg.FrameSkip < 1 {
		cfg.FrameSkip = 1
	}
	if log == nil {
		log = logger.NewNop()
	}

	tracker := tracking.NewManager(cfg.Tracking)
	id := uuid.NewString()

	return &Session{
		ID:         id,
		cfg:        cfg,
		meta:       meta,
		integrator: fusion.Integrator{OverlapThreshold: cfg.OverlapThreshold},
		classifier: severity.NewClassifier(),
		tracker:    tracker,
		aggregator: report.NewAggregator(tracker.Config().MinTrackLength),
		log:        log.With("session_id", id),
	}
}

// Process обрабатывает кадр. Для пропущенного кадра возвращает nil без ошибки.
//
// Нарушение порядка кадров завершает сессию: этот и все последующие вызовы возвращают
// entity.ErrOutOfOrderFrame. После MaxFrames обработанных кадров возвращается
// entity.ErrFrameLimitReached; собранные данные остаются доступны через Finalize.
func (s *Session) Process(frame *port.Frame) (*entity.FrameAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.started && frame.Number <= s.lastFrame {
		s.err = fmt.Errorf("%w: frame %d after %d", entity.ErrOutOfOrderFrame, frame.Number, s.lastFrame)
		s.log.Error("frame order violated", "frame", frame.Number, "last_frame", s.lastFrame)
		return nil, s.err
	}
	s.started = true
	s.lastFrame = frame.Number
	s.seen++

	if frame.Number%uint64(s.cfg.FrameSkip) != 0 {
		return nil, nil
	}
	if s.cfg.MaxFrames > 0 && len(s.frames) >= s.cfg.MaxFrames {
		return nil, fmt.Errorf("%w: %d frames", entity.ErrFrameLimitReached, s.cfg.MaxFrames)
	}

	var signs []entity.IntegratedResult
	if len(frame.Texts) > 0 {
		signs = s.cfg.Rules.Validate(s.integrator.Integrate(frame.Detections, frame.Texts))
	}

	classified := make([]entity.Detection, 0, len(frame.Detections))
	for _, det := range frame.Detections {
		classified = append(classified, s.classifier.Classify(det, frame.Sampler))
	}

	stats, err := s.tracker.Update(frame.Number, classified)
	if err != nil {
		s.err = err
		return nil, err
	}
	if stats.PrunedCapacity > 0 {
		s.log.Debug("tracks evicted over capacity",
			"frame", frame.Number,
			"evicted", stats.PrunedCapacity,
			"live", stats.Live,
		)
	}

	analysis := report.NewFrameAnalysis(frame.Number, s.timestamp(frame.Number), classified, frame.Quality)
	analysis.Signs = signs
	s.frames = append(s.frames, analysis)

	return &analysis, nil
}

// Finalize строит отчёт по уже обработанным кадрам. Можно вызывать повторно.
func (s *Session) Finalize() entity.VideoReport {
	meta := s.meta
	if meta.TotalFrames < s.seen {
		meta.TotalFrames = s.seen
	}
	return s.aggregator.Finalize(meta, s.frames, s.tracker.Tracks())
}

// TrackingStatistics текущее состояние таблицы треков
func (s *Session) TrackingStatistics() entity.TrackingStatistics {
	return s.tracker.Statistics()
}

// Processed число обработанных (не пропущенных) кадров
func (s *Session) Processed() int {
	return len(s.frames)
}

// Err ошибка, завершившая сессию
func (s *Session) Err() error {
	return s.err
}

func (s *Session) timestamp(frameNumber uint64) float64 {
	if s.meta.FPS <= 0 {
		return 0
	}
	return float64(frameNumber) / s.meta.FPS
}
