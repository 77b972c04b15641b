package container

import (
	"road-vision/config"
	app "road-vision/internal/application"
	"road-vision/internal/domain/fusion"
	"road-vision/internal/domain/port"
	"road-vision/internal/domain/tracking"
	"road-vision/internal/logger"
)

type Container struct {
	UserService       *app.UserService
	AnalysisService   *app.AnalysisService
	InspectionService *app.InspectionService
}

// Deps внешние зависимости, которые создаёт main
type Deps struct {
	Users    port.UserRepository
	Reports  port.ReportRepository
	Detector port.DefectDetector
	Analyzer port.ImageAnalyzer
	Logger   *logger.Logger
}

func New(cfg *config.Config, deps Deps) *Container {
	userService := app.NewUserService(deps.Users)
	analysisService := app.NewAnalysisService(SessionConfig(cfg), deps.Reports, deps.Logger)
	inspectionService := app.NewInspectionService(deps.Detector, deps.Analyzer, deps.Logger)

	return &Container{
		UserService:       userService,
		AnalysisService:   analysisService,
		InspectionService: inspectionService,
	}
}

// SessionConfig переносит параметры конфигурации в настройки сессии анализа
func SessionConfig(cfg *config.Config) app.SessionConfig {
	rules := fusion.DefaultRules()
	rules.MinConfidence = cfg.Fusion.MinConfidence
	rules.MinTextLength = cfg.Fusion.MinTextLength
	rules.MaxTextLength = cfg.Fusion.MaxTextLength

	return app.SessionConfig{
		Tracking: tracking.Config{
			TrackingThreshold: cfg.Tracking.TrackingThreshold,
			MinTrackLength:    cfg.Tracking.MinTrackLength,
			MaxTracks:         cfg.Tracking.MaxTracks,
			MaxHistory:        cfg.Tracking.MaxHistory,
		},
		OverlapThreshold: cfg.Fusion.OverlapThreshold,
		Rules:            rules,
		FrameSkip:        cfg.Tracking.FrameSkip,
		MaxFrames:        cfg.Analysis.MaxFrames,
	}
}
