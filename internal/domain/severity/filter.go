package severity

import (
	"github.com/samber/lo"

	"road-vision/internal/domain/entity"
)

// DefaultHighRiskThreshold порог риска для FilterHighRisk
const DefaultHighRiskThreshold = 0.7

// FilterBySeverity оставляет детекции заданного уровня
func FilterBySeverity(dets []entity.Detection, level entity.Severity) []entity.Detection {
	return lo.Filter(dets, func(d entity.Detection, _ int) bool { return d.Severity == level })
}

// FilterByClass оставляет детекции заданного класса
func FilterByClass(dets []entity.Detection, className string) []entity.Detection {
	return lo.Filter(dets, func(d entity.Detection, _ int) bool { return d.ClassName == className })
}

// FilterHighRisk оставляет детекции с риском не ниже порога
func FilterHighRisk(dets []entity.Detection, threshold float64) []entity.Detection {
	return lo.Filter(dets, func(d entity.Detection, _ int) bool { return d.RiskScore >= threshold })
}
