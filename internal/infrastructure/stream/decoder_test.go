package stream

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
)

const sampleStream = `{
  "fps": 25,
  "total_frames": 50,
  "frames": [
    {"frame_number": 0, "frame_quality": 0.8,
     "detections": [
       {"bbox": [10, 20, 110, 120], "confidence": 0.9, "class_name": "pothole", "region": {"mean": 60, "std": 20}},
       {"bbox": [300.7, 40, 360, 90], "confidence": 0.4, "class_name": "crack"}
     ],
     "texts": [{"bbox": [15, 25, 100, 60], "text": "STOP", "confidence": 0.95}]},
    {"frame_number": 2}
  ]
}`

func TestOpen(t *testing.T) {
	src, err := Open(strings.NewReader(sampleStream))
	require.NoError(t, err)
	require.Equal(t, entity.VideoMeta{FPS: 25, TotalFrames: 50}, src.Meta())
	require.Equal(t, 2, src.Len())

	ctx := context.Background()
	f, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), f.Number)
	require.Equal(t, 0.8, f.Quality)
	require.Len(t, f.Detections, 2)
	require.Equal(t, entity.BoundingBox{X1: 300, Y1: 40, X2: 360, Y2: 90}, f.Detections[1].BBox)
	require.Equal(t, entity.SeverityNone, f.Detections[0].Severity)
	require.Len(t, f.Texts, 1)
	require.Equal(t, "STOP", f.Texts[0].Text)

	stats, err := f.Sampler.Sample(f.Detections[0].BBox)
	require.NoError(t, err)
	require.Equal(t, entity.RegionStats{Mean: 60, StdDev: 20}, stats)

	_, err = f.Sampler.Sample(f.Detections[1].BBox)
	require.ErrorIs(t, err, entity.ErrEmptyRegion)

	f, err = src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), f.Number)
	require.Equal(t, DefaultFrameQuality, f.Quality)
	require.Empty(t, f.Detections)

	_, err = src.Next(ctx)
	require.ErrorIs(t, err, io.EOF)
}

func TestOpen_TotalFramesFallback(t *testing.T) {
	src, err := Open(strings.NewReader(`{"frames": [{"frame_number": 0}, {"frame_number": 9}]}`))
	require.NoError(t, err)
	require.Equal(t, uint64(10), src.Meta().TotalFrames)
}

func TestOpen_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"inverted bbox", `{"frames": [{"frame_number": 0, "detections": [{"bbox": [50, 50, 10, 10], "confidence": 0.5}]}]}`, entity.ErrInvalidGeometry},
		{"short bbox", `{"frames": [{"frame_number": 0, "detections": [{"bbox": [1, 2, 3], "confidence": 0.5}]}]}`, entity.ErrInvalidGeometry},
		{"degenerate text bbox", `{"frames": [{"frame_number": 0, "texts": [{"bbox": [1, 1, 1, 5], "text": "A", "confidence": 0.5}]}]}`, entity.ErrInvalidGeometry},
		{"confidence above one", `{"frames": [{"frame_number": 0, "detections": [{"bbox": [0, 0, 10, 10], "confidence": 1.5}]}]}`, entity.ErrInvalidConfidence},
		{"negative text confidence", `{"frames": [{"frame_number": 0, "texts": [{"bbox": [0, 0, 10, 10], "text": "A", "confidence": -0.1}]}]}`, entity.ErrInvalidConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpen_Malformed(t *testing.T) {
	_, err := Open(strings.NewReader(`{"frames": [`))
	require.Error(t, err)
}

func TestNext_Cancelled(t *testing.T) {
	src, err := Open(strings.NewReader(sampleStream))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleStream), 0o644))

	src, err := OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, src.Len())

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
