// Package severity оценивает глубину, серьёзность и риск дефекта дороги.
package severity

import (
	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

const (
	// DefaultDepth оценка глубины, когда область изображения недоступна
	DefaultDepth = 0.05

	minDepth = 0.01
	maxDepth = 1.0

	// площадь, при которой множитель площади равен 1
	referenceArea = 10000.0
	maxAreaFactor = 2.0
)

// depthRanges неперекрывающиеся диапазоны глубины [lo, hi); у последнего правая граница включена
var depthRanges = []struct {
	level  entity.Severity
	lo, hi float64
}{
	{entity.SeverityLow, 0.01, 0.05},
	{entity.SeverityMedium, 0.05, 0.15},
	{entity.SeverityHigh, 0.15, 0.30},
	{entity.SeverityCritical, 0.30, 1.0},
}

// Classifier обогащает сырую детекцию оценками глубины, серьёзности и риска.
// Детерминирован: одинаковый вход даёт одинаковый результат.
type Classifier struct{}

func NewClassifier() Classifier {
	return Classifier{}
}

// Classify возвращает новую детекцию; исходная не изменяется.
// Если статистику области получить не удалось, используется DefaultDepth.
func (Classifier) Classify(raw entity.Detection, sampler port.RegionSampler) entity.Detection {
	d := raw
	d.AreaEstimate = float64(raw.BBox.Area())

	depth := DefaultDepth
	if sampler != nil {
		// любая ошибка сэмплера трактуется как пустая область
		if stats, err := sampler.Sample(raw.BBox); err == nil {
			depth = DepthFromStats(stats)
		}
	}

	d.DepthEstimate = depth
	d.Severity = LevelForDepth(depth)
	d.RiskScore = RiskScore(d.Confidence, d.Severity, d.AreaEstimate)
	return d
}

// DepthFromStats эвристика глубины по средней яркости и её разбросу:
// тёмные и неоднородные области считаются глубже.
func DepthFromStats(stats entity.RegionStats) float64 {
	depth := 0.5*(255-stats.Mean)/255 + 0.3*(stats.StdDev/255)
	return entity.Clamp(depth, minDepth, maxDepth)
}

// LevelForDepth сопоставляет глубину уровню серьёзности; вне диапазонов Low
func LevelForDepth(depth float64) entity.Severity {
	for i, r := range depthRanges {
		last := i == len(depthRanges)-1
		if depth >= r.lo && (depth < r.hi || (last && depth <= r.hi)) {
			return r.level
		}
	}
	return entity.SeverityLow
}

// Multiplier множитель риска для уровня серьёзности
func Multiplier(level entity.Severity) float64 {
	switch level {
	case entity.SeverityMedium:
		return 1.5
	case entity.SeverityHigh:
		return 2.0
	case entity.SeverityCritical:
		return 3.0
	case entity.SeverityLow, entity.SeverityNone:
		return 1.0
	}
	return 1.0
}

// RiskScore = confidence * multiplier * min(area/10000, 2), ограничено [0,1]
func RiskScore(confidence float64, level entity.Severity, area float64) float64 {
	areaFactor := min(area/referenceArea, maxAreaFactor)
	return entity.Clamp(confidence*Multiplier(level)*areaFactor, 0, 1)
}
