package entity

import "time"

// FrameAnalysis итог анализа одного обработанного кадра
type FrameAnalysis struct {
	FrameNumber         uint64              `json:"frame_number"`
	Timestamp           float64             `json:"timestamp"`
	Detections          []Detection         `json:"detections"`
	FrameQuality        float64             `json:"frame_quality"`
	RoadCondition       RoadCondition       `json:"road_condition"`
	MaintenancePriority MaintenancePriority `json:"maintenance_priority"`
	// Signs детекции, подтверждённые текстом OCR и прошедшие правила отбора
	Signs []IntegratedResult `json:"signs,omitempty"`
}

// VideoMeta сведения о видео, известные источнику кадров
type VideoMeta struct {
	FPS         float64 `json:"fps"`
	TotalFrames uint64  `json:"total_frames"`
}

// VideoReport сводный отчёт по видео
type VideoReport struct {
	VideoInfo             VideoInfo             `json:"video_info"`
	DetectionSummary      DetectionSummary      `json:"detection_summary"`
	QualityAnalysis       QualityAnalysis       `json:"quality_analysis"`
	RoadConditionAnalysis RoadConditionAnalysis `json:"road_condition_analysis"`
	MaintenanceAnalysis   MaintenanceAnalysis   `json:"maintenance_analysis"`
	TrackingAnalysis      TrackingAnalysis      `json:"tracking_analysis"`
	Recommendations       []string              `json:"recommendations"`
}

type VideoInfo struct {
	FrameCount      uint64  `json:"frame_count"`
	ProcessedFrames int     `json:"processed_frames"`
	FPS             float64 `json:"fps,omitempty"`
	Duration        float64 `json:"duration,omitempty"` // секунды
}

type DetectionSummary struct {
	TotalDetections      int     `json:"total_detections"`
	FramesWithDetections int     `json:"frames_with_detections"`
	DetectionRate        float64 `json:"detection_rate"`
}

type QualityAnalysis struct {
	AverageFrameQuality float64             `json:"average_frame_quality"`
	QualityDistribution QualityDistribution `json:"quality_distribution"`
}

type QualityDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

type RoadConditionAnalysis struct {
	ConditionDistribution map[string]int `json:"condition_distribution"`
	OverallCondition      RoadCondition  `json:"overall_condition"`
}

type MaintenanceAnalysis struct {
	PriorityDistribution map[string]int      `json:"priority_distribution"`
	OverallPriority      MaintenancePriority `json:"overall_priority"`
}

type TrackingAnalysis struct {
	TotalTracks  int     `json:"total_tracks"`
	StableTracks int     `json:"stable_tracks"`
	TrackDetails []Track `json:"track_details"`
}

// DetectionStatistics статистика по списку детекций
type DetectionStatistics struct {
	TotalDetections      int            `json:"total_detections"`
	SeverityDistribution map[string]int `json:"severity_distribution"`
	AverageRiskScore     float64        `json:"average_risk_score"`
	MinRiskScore         float64        `json:"min_risk_score"`
	MaxRiskScore         float64        `json:"max_risk_score"`
	TotalArea            float64        `json:"total_area"`
	AverageArea          float64        `json:"average_area"`
}

// RoadReport отчёт по одному изображению
type RoadReport struct {
	Summary         RoadSummary         `json:"summary"`
	Statistics      DetectionStatistics `json:"statistics"`
	Recommendations []string            `json:"recommendations"`
}

type RoadSummary struct {
	TotalDefects        int                 `json:"total_defects"`
	RoadCondition       RoadCondition       `json:"road_condition"`
	MaintenancePriority MaintenancePriority `json:"maintenance_priority"`
}

// StoredReport сохранённый отчёт пользователя
type StoredReport struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id"`
	Source    string      `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
	Report    VideoReport `json:"report"`
}

// TrackingStatistics состояние таблицы треков
type TrackingStatistics struct {
	TotalTracks        int               `json:"total_tracks"`
	StableTracks       int               `json:"stable_tracks"`
	AverageTrackLength float64           `json:"average_track_length"`
	MaxTrackLength     uint32            `json:"max_track_length"`
	Distribution       TrackDistribution `json:"track_distribution"`
}

// TrackDistribution short: меньше MinTrackLength, long: больше удвоенного MinTrackLength
type TrackDistribution struct {
	Short  int `json:"short"`
	Stable int `json:"stable"`
	Long   int `json:"long"`
}
