package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDetection_Validation(t *testing.T) {
	box := BoundingBox{0, 0, 10, 10}

	d, err := NewDetection(box, 0.8, "pothole")
	require.NoError(t, err)
	require.False(t, d.Classified())

	_, err = NewDetection(box, math.NaN(), "pothole")
	require.ErrorIs(t, err, ErrInvalidConfidence)

	_, err = NewDetection(box, 1.2, "pothole")
	require.ErrorIs(t, err, ErrInvalidConfidence)

	_, err = NewDetection(BoundingBox{10, 10, 0, 0}, 0.5, "pothole")
	require.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestNewTextResult_Validation(t *testing.T) {
	_, err := NewTextResult(BoundingBox{0, 0, 10, 10}, "PARE", math.Inf(1))
	require.ErrorIs(t, err, ErrInvalidConfidence)

	tr, err := NewTextResult(BoundingBox{0, 0, 10, 10}, "PARE", 0.9)
	require.NoError(t, err)
	require.Equal(t, "PARE", tr.Text)
}

func TestTrackCloneIsIndependent(t *testing.T) {
	tr := Track{ID: 1, Detections: []Detection{{Confidence: 0.5}}, TotalFrames: 1}
	c := tr.Clone()
	c.Detections[0].Confidence = 0.9

	require.Equal(t, 0.5, tr.Detections[0].Confidence)
	last, ok := tr.Last()
	require.True(t, ok)
	require.Equal(t, 0.5, last.Confidence)
	require.False(t, tr.Stable(3))
	require.True(t, tr.Stable(1))
}
