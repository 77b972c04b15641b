package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
	"road-vision/internal/logger"
)

// AnalysisService прогоняет поток кадров через сессию и сохраняет итоговый отчёт
type AnalysisService struct {
	cfg     SessionConfig
	reports port.ReportRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewAnalysisService создаёт сервис; reports может быть nil, тогда отчёты не сохраняются
func NewAnalysisService(cfg SessionConfig, reports port.ReportRepository, log *logger.Logger) *AnalysisService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AnalysisService{
		cfg:     cfg,
		reports: reports,
		log:     log,
		now:     time.Now,
	}
}

// AnalyzeStream читает кадры до io.EOF, строит и сохраняет отчёт.
// Отмена контекста проверяется между кадрами и прерывает анализ без сохранения.
func (s *AnalysisService) AnalyzeStream(ctx context.Context, userID int64, source string, src port.FrameSource) (*entity.StoredReport, error) {
	session := NewSession(s.cfg, src.Meta(), s.log)
	log := s.log.With("session_id", session.ID, "user_id", userID, "source", source)
	log.Info("analysis started", "fps", src.Meta().FPS, "total_frames", src.Meta().TotalFrames)

	for {
		if err := ctx.Err(); err != nil {
			log.Warn("analysis cancelled", "processed", session.Processed())
			return nil, err
		}

		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}

		if _, err := session.Process(frame); err != nil {
			if errors.Is(err, entity.ErrFrameLimitReached) {
				log.Warn("frame limit reached, finalizing early", "max_frames", s.cfg.MaxFrames)
				break
			}
			return nil, fmt.Errorf("process frame %d: %w", frame.Number, err)
		}
	}

	stored := &entity.StoredReport{
		ID:        session.ID,
		UserID:    userID,
		Source:    source,
		CreatedAt: s.now().UTC(),
		Report:    session.Finalize(),
	}

	ts := session.TrackingStatistics()
	log.Info("analysis finished",
		"processed", stored.Report.VideoInfo.ProcessedFrames,
		"detections", stored.Report.DetectionSummary.TotalDetections,
		"tracks", ts.TotalTracks,
		"stable_tracks", ts.StableTracks,
		"condition", stored.Report.RoadConditionAnalysis.OverallCondition.String(),
	)

	if s.reports != nil {
		if err := s.reports.Save(ctx, stored); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	return stored, nil
}

// LastReport последний сохранённый отчёт пользователя
func (s *AnalysisService) LastReport(ctx context.Context, userID int64) (*entity.StoredReport, error) {
	if s.reports == nil {
		return nil, port.ErrReportNotFound
	}
	return s.reports.Latest(ctx, userID)
}
