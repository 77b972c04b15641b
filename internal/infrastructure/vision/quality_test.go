package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
)

func TestFrameQuality_FlatImageIsPoor(t *testing.T) {
	require.Equal(t, 0.0, FrameQuality(uniform(32, 32, 128)))
}

func TestFrameQuality_HighContrastIsExcellent(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if (x/2+y/2)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	require.InDelta(t, 1.0, FrameQuality(img), 1e-9)
}

func TestFrameQuality_Range(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.SetGray(x, y, color.Gray{Y: uint8(100 + x)})
		}
	}
	q := FrameQuality(img)
	require.GreaterOrEqual(t, q, 0.0)
	require.LessOrEqual(t, q, 1.0)
	require.Greater(t, q, 0.0)
}

func TestFrameQuality_Empty(t *testing.T) {
	require.Equal(t, 0.0, FrameQuality(image.NewGray(image.Rect(0, 0, 0, 0))))
}

func TestReflect101(t *testing.T) {
	require.Equal(t, 1, reflect101(-1, 5))
	require.Equal(t, 3, reflect101(5, 5))
	require.Equal(t, 2, reflect101(2, 5))
	require.Equal(t, 0, reflect101(-1, 1))
}

func TestAnalyzer(t *testing.T) {
	a := NewAnalyzer()
	img := uniform(10, 10, 50)
	require.Equal(t, 0.0, a.Quality(img))

	stats, err := a.Sampler(img).Sample(entity.BoundingBox{X1: 0, Y1: 0, X2: 5, Y2: 5})
	require.NoError(t, err)
	require.InDelta(t, 50, stats.Mean, 1e-9)
}
