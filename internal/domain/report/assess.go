// Package report сводит покадровые результаты и треки в итоговый отчёт по видео.
package report

import (
	"github.com/samber/lo"

	"road-vision/internal/domain/entity"
)

// AssessRoadCondition состояние дороги на кадре по среднему риску детекций
func AssessRoadCondition(detections []entity.Detection) entity.RoadCondition {
	if len(detections) == 0 {
		return entity.ConditionExcellent
	}

	avg := lo.SumBy(detections, func(d entity.Detection) float64 { return d.RiskScore }) / float64(len(detections))
	switch {
	case avg <= 0.3:
		return entity.ConditionGood
	case avg <= 0.6:
		return entity.ConditionFair
	case avg <= 0.8:
		return entity.ConditionPoor
	default:
		return entity.ConditionCritical
	}
}

// AssessMaintenancePriority приоритет ремонта по уровням серьёзности детекций кадра
func AssessMaintenancePriority(detections []entity.Detection) entity.MaintenancePriority {
	critical := lo.CountBy(detections, func(d entity.Detection) bool { return d.Severity == entity.SeverityCritical })
	high := lo.CountBy(detections, func(d entity.Detection) bool { return d.Severity == entity.SeverityHigh })

	switch {
	case critical > 0:
		return entity.PriorityImmediate
	case high > 2:
		return entity.PriorityHigh
	case high > 0:
		return entity.PriorityMedium
	default:
		return entity.PriorityLow
	}
}

// NewFrameAnalysis фиксирует результат обработки кадра
func NewFrameAnalysis(frameNumber uint64, timestamp float64, detections []entity.Detection, quality float64) entity.FrameAnalysis {
	dets := append([]entity.Detection{}, detections...)
	return entity.FrameAnalysis{
		FrameNumber:         frameNumber,
		Timestamp:           timestamp,
		Detections:          dets,
		FrameQuality:        entity.Clamp(quality, 0, 1),
		RoadCondition:       AssessRoadCondition(dets),
		MaintenancePriority: AssessMaintenancePriority(dets),
	}
}
