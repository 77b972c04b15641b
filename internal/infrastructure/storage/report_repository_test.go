package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

func sampleReport(id string, userID int64, at time.Time) *entity.StoredReport {
	return &entity.StoredReport{
		ID:        id,
		UserID:    userID,
		Source:    "stream.json",
		CreatedAt: at,
		Report: entity.VideoReport{
			VideoInfo:        entity.VideoInfo{FrameCount: 30, ProcessedFrames: 30, FPS: 30, Duration: 1},
			DetectionSummary: entity.DetectionSummary{TotalDetections: 2, FramesWithDetections: 1, DetectionRate: 1.0 / 30},
			RoadConditionAnalysis: entity.RoadConditionAnalysis{
				ConditionDistribution: map[string]int{"excellent": 29, "fair": 1},
				OverallCondition:      entity.ConditionExcellent,
			},
			MaintenanceAnalysis: entity.MaintenanceAnalysis{
				PriorityDistribution: map[string]int{"low": 29, "medium": 1},
				OverallPriority:      entity.PriorityLow,
			},
			TrackingAnalysis: entity.TrackingAnalysis{
				TotalTracks:  1,
				StableTracks: 1,
				TrackDetails: []entity.Track{{ID: 4, FirstFrame: 1, LastFrame: 5, TotalFrames: 5, Severity: entity.SeverityHigh, StabilityScore: 0.9}},
			},
			Recommendations: []string{"Few potholes detected - road condition acceptable"},
		},
	}
}

func repositories(t *testing.T) map[string]port.ReportRepository {
	sqlite, err := NewSQLiteReportRepository(filepath.Join(t.TempDir(), "nested", "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]port.ReportRepository{
		"memory": NewMemoryReportRepository(),
		"sqlite": sqlite,
	}
}

func TestReportRepository_SaveGet(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleReport("a", 1, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

			require.NoError(t, repo.Save(ctx, want))
			got, err := repo.Get(ctx, "a")
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("stored report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReportRepository_NotFound(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := repo.Get(ctx, "missing")
			require.ErrorIs(t, err, port.ErrReportNotFound)
			_, err = repo.Latest(ctx, 42)
			require.ErrorIs(t, err, port.ErrReportNotFound)
		})
	}
}

func TestReportRepository_Latest(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

			require.NoError(t, repo.Save(ctx, sampleReport("old", 1, base)))
			require.NoError(t, repo.Save(ctx, sampleReport("new", 1, base.Add(time.Minute))))
			require.NoError(t, repo.Save(ctx, sampleReport("other", 2, base.Add(time.Hour))))

			got, err := repo.Latest(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, "new", got.ID)
		})
	}
}
