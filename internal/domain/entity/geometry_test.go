package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBoundingBox_RejectsInverted(t *testing.T) {
	_, err := NewBoundingBox(10, 10, 5, 20)
	require.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = NewBoundingBox(0, 0, 10, 0)
	require.ErrorIs(t, err, ErrInvalidGeometry)

	b, err := NewBoundingBox(0, 0, 10, 20)
	require.NoError(t, err)
	require.Equal(t, 200, b.Area())
}

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	x, y := b.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}

func TestIoU(t *testing.T) {
	a := BoundingBox{0, 0, 10, 10}
	b := BoundingBox{5, 0, 15, 10}
	far := BoundingBox{100, 100, 110, 110}
	touching := BoundingBox{10, 0, 20, 10}

	tests := []struct {
		name string
		a, b BoundingBox
		want float64
	}{
		{"identical", a, a, 1.0},
		{"half overlap", a, b, 50.0 / 150.0},
		{"disjoint", a, far, 0},
		{"touching edges", a, touching, 0},
		{"contained", BoundingBox{0, 0, 20, 20}, BoundingBox{0, 0, 10, 10}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IoU(tt.a, tt.b)
			require.InDelta(t, tt.want, got, 1e-9)
			require.InDelta(t, got, IoU(tt.b, tt.a), 1e-12, "IoU must be symmetric")
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestOverlapRatioMatchesIoU(t *testing.T) {
	boxes := []BoundingBox{
		{0, 0, 10, 10}, {3, 4, 30, 12}, {9, 9, 11, 11}, {50, 50, 60, 70}, {-5, -5, 5, 5},
	}
	for _, a := range boxes {
		for _, b := range boxes {
			r := OverlapRatio(a, b)
			require.Equal(t, IoU(a, b), r)
			require.True(t, r >= 0 && r <= 1)
		}
	}
}

func TestIoU_DegenerateBoxes(t *testing.T) {
	zero := BoundingBox{5, 5, 5, 5}
	require.Equal(t, 0.0, IoU(zero, zero))
	require.Equal(t, 0.0, IoU(zero, BoundingBox{0, 0, 10, 10}))
}

func TestBoundingBoxJSON(t *testing.T) {
	b := BoundingBox{1, 2, 3, 4}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	require.JSONEq(t, `[1,2,3,4]`, string(data))

	var back BoundingBox
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, b, back)

	require.ErrorIs(t, json.Unmarshal([]byte(`"oops"`), &back), ErrInvalidGeometry)
}
