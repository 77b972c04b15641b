package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
	"road-vision/internal/infrastructure/stream"
)

func pothole(x1, y1, x2, y2 int, conf float64) entity.Detection {
	return entity.Detection{BBox: entity.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}, Confidence: conf, ClassName: "pothole"}
}

func frame(n uint64, dets ...entity.Detection) *port.Frame {
	regions := stream.RegionTable{}
	for _, d := range dets {
		regions[d.BBox] = entity.RegionStats{Mean: 51, StdDev: 0}
	}
	return &port.Frame{Number: n, Quality: 0.7, Detections: dets, Sampler: regions}
}

func TestSession_ProcessClassifiesAndTracks(t *testing.T) {
	s := NewSession(DefaultSessionConfig(), entity.VideoMeta{FPS: 10, TotalFrames: 5}, nil)
	require.NotEmpty(t, s.ID)

	for n := uint64(0); n < 5; n++ {
		fa, err := s.Process(frame(n, pothole(0, 0, 100, 100, 0.5)))
		require.NoError(t, err)
		require.NotNil(t, fa)
		require.InDelta(t, float64(n)/10, fa.Timestamp, 1e-12)
		// глубина 0.5*(204/255) = 0.4 -> critical
		require.Equal(t, entity.SeverityCritical, fa.Detections[0].Severity)
		require.Equal(t, entity.PriorityImmediate, fa.MaintenancePriority)
	}

	rep := s.Finalize()
	require.Equal(t, 5, rep.VideoInfo.ProcessedFrames)
	require.Equal(t, 1, rep.TrackingAnalysis.StableTracks)
	require.Equal(t, uint32(5), rep.TrackingAnalysis.TrackDetails[0].TotalFrames)
	require.Equal(t, entity.SeverityCritical, rep.TrackingAnalysis.TrackDetails[0].Severity)
	require.Equal(t, entity.PriorityImmediate, rep.MaintenanceAnalysis.OverallPriority)
	require.Equal(t, 1, s.TrackingStatistics().TotalTracks)
}

func TestSession_MissingRegionUsesDefaultDepth(t *testing.T) {
	s := NewSession(DefaultSessionConfig(), entity.VideoMeta{}, nil)

	f := &port.Frame{Number: 0, Detections: []entity.Detection{pothole(0, 0, 10, 10, 0.5)}, Sampler: stream.RegionTable{}}
	fa, err := s.Process(f)
	require.NoError(t, err)
	require.Equal(t, 0.05, fa.Detections[0].DepthEstimate)
	require.Equal(t, entity.SeverityMedium, fa.Detections[0].Severity)
}

func TestSession_OutOfOrderIsFatal(t *testing.T) {
	s := NewSession(DefaultSessionConfig(), entity.VideoMeta{}, nil)

	_, err := s.Process(frame(3))
	require.NoError(t, err)
	_, err = s.Process(frame(2))
	require.ErrorIs(t, err, entity.ErrOutOfOrderFrame)
	_, err = s.Process(frame(4))
	require.ErrorIs(t, err, entity.ErrOutOfOrderFrame)
	require.ErrorIs(t, s.Err(), entity.ErrOutOfOrderFrame)
}

func TestSession_FrameSkip(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.FrameSkip = 3
	s := NewSession(cfg, entity.VideoMeta{}, nil)

	processed := 0
	for n := uint64(0); n < 10; n++ {
		fa, err := s.Process(frame(n))
		require.NoError(t, err)
		if fa != nil {
			processed++
			require.Zero(t, fa.FrameNumber%3)
		}
	}
	require.Equal(t, 4, processed)

	rep := s.Finalize()
	require.Equal(t, 4, rep.VideoInfo.ProcessedFrames)
	require.Equal(t, uint64(10), rep.VideoInfo.FrameCount)
}

func TestSession_FrameLimit(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.MaxFrames = 2
	s := NewSession(cfg, entity.VideoMeta{}, nil)

	_, err := s.Process(frame(0))
	require.NoError(t, err)
	_, err = s.Process(frame(1))
	require.NoError(t, err)
	_, err = s.Process(frame(2))
	require.ErrorIs(t, err, entity.ErrFrameLimitReached)
	require.NoError(t, s.Err(), "frame limit does not fail the session")

	require.Equal(t, 2, s.Finalize().VideoInfo.ProcessedFrames)
}

func TestSession_SignsFromOCR(t *testing.T) {
	s := NewSession(DefaultSessionConfig(), entity.VideoMeta{}, nil)

	f := frame(0, pothole(0, 0, 100, 100, 0.9), pothole(300, 300, 320, 320, 0.9))
	f.Texts = []entity.TextResult{
		{BBox: entity.BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 60}, Text: "STOP", Confidence: 0.9},
	}
	fa, err := s.Process(f)
	require.NoError(t, err)

	// вторая детекция без текста и меньше 50x50: отсеивается правилами
	require.Len(t, fa.Signs, 1)
	require.Equal(t, "STOP", *fa.Signs[0].PrimaryText)
	require.Len(t, fa.Detections, 2)
}
