package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// дисперсия яркости, при которой оценка детализации насыщается
	varianceSaturation = 1000.0
	// средний модуль градиента Собеля, при котором оценка резкости насыщается
	gradientSaturation = 50.0

	varianceWeight = 0.6
	gradientWeight = 0.4
)

// FrameQuality оценка пригодности кадра в [0,1]: детализация (дисперсия яркости)
// и резкость (средний модуль градиента Собеля 3x3).
func FrameQuality(img image.Image) float64 {
	gray := toGray(img)
	b := gray.Bounds()
	if b.Empty() {
		return 0
	}

	pixels := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pixels = append(pixels, float64(gray.GrayAt(x, y).Y))
		}
	}
	variance := stat.PopVariance(pixels, nil)

	gradient := meanSobelMagnitude(gray)

	score := min(variance/varianceSaturation, 1)*varianceWeight +
		min(gradient/gradientSaturation, 1)*gradientWeight
	return math.Max(0, math.Min(score, 1))
}

// meanSobelMagnitude средний модуль градиента; края отражаются без повтора крайнего пикселя
func meanSobelMagnitude(gray *image.Gray) float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	at := func(x, y int) float64 {
		return float64(gray.GrayAt(b.Min.X+reflect101(x, w), b.Min.Y+reflect101(y, h)).Y)
	}

	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			sum += math.Hypot(gx, gy)
		}
	}
	return sum / float64(w*h)
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	switch {
	case i < 0:
		return -i
	case i >= n:
		return 2*n - i - 2
	}
	return i
}
