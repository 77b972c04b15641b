package report

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"road-vision/internal/domain/entity"
)

const (
	RecommendCriticalDefects = "Immediate intervention required for critical potholes"
	RecommendManyHighDefects = "Urgent maintenance recommended for multiple high-severity potholes"
	RecommendResurfacing     = "Significant total damaged area - consider resurfacing"
	RecommendAcceptable      = "Road condition acceptable - preventive maintenance recommended"

	// площадь повреждений в пикселях, после которой стоит думать о перекладке покрытия
	resurfacingArea = 50000.0
)

// Statistics сводка по списку классифицированных детекций
func Statistics(detections []entity.Detection) entity.DetectionStatistics {
	st := entity.DetectionStatistics{
		TotalDetections:      len(detections),
		SeverityDistribution: map[string]int{},
	}
	if len(detections) == 0 {
		return st
	}

	for level, n := range lo.CountValuesBy(detections, func(d entity.Detection) entity.Severity { return d.Severity }) {
		st.SeverityDistribution[level.String()] = n
	}

	risks := lo.FilterMap(detections, func(d entity.Detection, _ int) (float64, bool) {
		return d.RiskScore, d.Classified()
	})
	if len(risks) > 0 {
		st.AverageRiskScore = stat.Mean(risks, nil)
		st.MinRiskScore = lo.Min(risks)
		st.MaxRiskScore = lo.Max(risks)
	}

	st.TotalArea = lo.SumBy(detections, func(d entity.Detection) float64 { return d.AreaEstimate })
	st.AverageArea = st.TotalArea / float64(len(detections))
	return st
}

// BuildRoadReport отчёт по одному изображению
func BuildRoadReport(detections []entity.Detection) entity.RoadReport {
	st := Statistics(detections)
	return entity.RoadReport{
		Summary: entity.RoadSummary{
			TotalDefects:        st.TotalDetections,
			RoadCondition:       AssessRoadCondition(detections),
			MaintenancePriority: AssessMaintenancePriority(detections),
		},
		Statistics:      st,
		Recommendations: imageRecommendations(st),
	}
}

func imageRecommendations(st entity.DetectionStatistics) []string {
	var recs []string
	if st.SeverityDistribution[entity.SeverityCritical.String()] > 0 {
		recs = append(recs, RecommendCriticalDefects)
	}
	if st.SeverityDistribution[entity.SeverityHigh.String()] > 3 {
		recs = append(recs, RecommendManyHighDefects)
	}
	if st.TotalArea > resurfacingArea {
		recs = append(recs, RecommendResurfacing)
	}
	if len(recs) == 0 {
		recs = append(recs, RecommendAcceptable)
	}
	return recs
}
