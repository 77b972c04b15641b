package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/report"
)

func TestFormatVideoReport(t *testing.T) {
	frames := []entity.FrameAnalysis{
		report.NewFrameAnalysis(0, 0, nil, 0.9),
		report.NewFrameAnalysis(1, 0.1, nil, 0.9),
	}
	rep := &entity.StoredReport{
		ID:     "0123456789abcdef",
		Report: report.NewAggregator(3).Finalize(entity.VideoMeta{FPS: 10}, frames, nil),
	}

	text := formatVideoReport(rep)
	require.Contains(t, text, "Отчёт 01234567")
	require.Contains(t, text, "Кадров: 2, обработано: 2 (0.2 с)")
	require.Contains(t, text, "Состояние дороги: отличное")
	require.Contains(t, text, "Приоритет ремонта: низкий")
	require.Contains(t, text, report.RecommendNoDefects)
}

func TestFormatRoadReport(t *testing.T) {
	dets := []entity.Detection{{Severity: entity.SeverityCritical, RiskScore: 0.9, AreaEstimate: 100}}
	text := formatRoadReport(report.BuildRoadReport(dets), 0.75)

	require.Contains(t, text, "Найдено дефектов: 1")
	require.Contains(t, text, "Приоритет ремонта: немедленно")
	require.Contains(t, text, "Качество снимка: 0.75")
	require.Contains(t, text, report.RecommendCriticalDefects)
}

func TestEveryLevelHasName(t *testing.T) {
	for c := entity.ConditionUnknown; c <= entity.ConditionCritical; c++ {
		require.NotEmpty(t, conditionNames[c], c.String())
	}
	for p := entity.PriorityLow; p <= entity.PriorityImmediate; p++ {
		require.NotEmpty(t, priorityNames[p], p.String())
	}
	for s := entity.SeverityNone; s <= entity.SeverityCritical; s++ {
		require.NotEmpty(t, severityNames[s], s.String())
	}
}
