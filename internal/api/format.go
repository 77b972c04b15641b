package telegram

import (
	"fmt"
	"strings"

	"road-vision/internal/domain/entity"
)

var conditionNames = map[entity.RoadCondition]string{
	entity.ConditionUnknown:   "неизвестно",
	entity.ConditionExcellent: "отличное",
	entity.ConditionGood:      "хорошее",
	entity.ConditionFair:      "удовлетворительное",
	entity.ConditionPoor:      "плохое",
	entity.ConditionCritical:  "критическое",
}

var priorityNames = map[entity.MaintenancePriority]string{
	entity.PriorityLow:       "низкий",
	entity.PriorityMedium:    "средний",
	entity.PriorityHigh:      "высокий",
	entity.PriorityImmediate: "немедленно",
}

var severityNames = map[entity.Severity]string{
	entity.SeverityNone:     "—",
	entity.SeverityLow:      "низкая",
	entity.SeverityMedium:   "средняя",
	entity.SeverityHigh:     "высокая",
	entity.SeverityCritical: "критическая",
}

// formatVideoReport краткая сводка отчёта для сообщения в чат
func formatVideoReport(rep *entity.StoredReport) string {
	r := rep.Report
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Отчёт %s\n\n", shortID(rep.ID))
	fmt.Fprintf(&b, "🎞 Кадров: %d, обработано: %d", r.VideoInfo.FrameCount, r.VideoInfo.ProcessedFrames)
	if r.VideoInfo.Duration > 0 {
		fmt.Fprintf(&b, " (%.1f с)", r.VideoInfo.Duration)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "🕳 Детекций: %d, кадров с дефектами: %d (%.0f%%)\n",
		r.DetectionSummary.TotalDetections,
		r.DetectionSummary.FramesWithDetections,
		r.DetectionSummary.DetectionRate*100,
	)
	fmt.Fprintf(&b, "🎯 Среднее качество кадров: %.2f\n", r.QualityAnalysis.AverageFrameQuality)
	fmt.Fprintf(&b, "🛣 Состояние дороги: %s\n", conditionNames[r.RoadConditionAnalysis.OverallCondition])
	fmt.Fprintf(&b, "🛠 Приоритет ремонта: %s\n", priorityNames[r.MaintenanceAnalysis.OverallPriority])
	fmt.Fprintf(&b, "📍 Треков: %d, устойчивых: %d\n", r.TrackingAnalysis.TotalTracks, r.TrackingAnalysis.StableTracks)

	for _, t := range r.TrackingAnalysis.TrackDetails {
		fmt.Fprintf(&b, "  • #%d кадры %d–%d, серьёзность %s, риск %.2f\n",
			t.ID, t.FirstFrame, t.LastFrame, severityNames[t.Severity], t.AverageRiskScore)
	}

	writeRecommendations(&b, r.Recommendations)
	return b.String()
}

// formatRoadReport сводка по одному фото
func formatRoadReport(rep entity.RoadReport, quality float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🕳 Найдено дефектов: %d\n", rep.Summary.TotalDefects)
	fmt.Fprintf(&b, "🛣 Состояние дороги: %s\n", conditionNames[rep.Summary.RoadCondition])
	fmt.Fprintf(&b, "🛠 Приоритет ремонта: %s\n", priorityNames[rep.Summary.MaintenancePriority])
	fmt.Fprintf(&b, "🎯 Качество снимка: %.2f\n", quality)
	if rep.Statistics.TotalDetections > 0 {
		fmt.Fprintf(&b, "⚠️ Риск: средний %.2f, максимальный %.2f\n",
			rep.Statistics.AverageRiskScore, rep.Statistics.MaxRiskScore)
	}

	writeRecommendations(&b, rep.Recommendations)
	return b.String()
}

func writeRecommendations(b *strings.Builder, recs []string) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("\n💡 Рекомендации:\n")
	for _, r := range recs {
		fmt.Fprintf(b, "• %s\n", r)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
