//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// GoCVDetector ищет выбоины как тёмные замкнутые области с выраженным контуром
type GoCVDetector struct {
	MinAreaRatio          float64
	MaxAreaRatio          float64
	MaxAspectRatio        float64
	MinAspectRatio        float64
	MaxSide               int
	MinImageSide          int
	MinConfidence         float64
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
}

// NewGoCVDetector создаёт детектор с порогами для съёмки дороги с регистратора
func NewGoCVDetector() *GoCVDetector {
	return &GoCVDetector{
		MinAreaRatio:          0.001,
		MaxAreaRatio:          0.25,
		MinAspectRatio:        0.2,
		MaxAspectRatio:        5.0,
		MaxSide:               1024,
		MinImageSide:          200,
		MinConfidence:         0.25,
		MinSharpnessEdgeRatio: 0.004,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.6,
	}
}

// Detect возвращает неклассифицированные детекции в координатах исходного изображения
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}
	if err := d.checkImageQuality(mat); err != nil {
		return nil, err
	}

	// Приводим изображение к стандартному размеру для стабильных порогов.
	scale := 1.0
	if mat.Cols() > d.MaxSide || mat.Rows() > d.MaxSide {
		scale = float64(d.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(int(float64(mat.Cols())*scale), int(float64(mat.Rows())*scale)), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, 50, 150)

	// замыкаем разорванные края выбоин
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(7, 7))
	defer kernel.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(edges, &closed, gocv.MorphClose, kernel)

	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	imageMean := blur.Mean().Val1
	total := float64(mat.Cols() * mat.Rows())
	minArea := int(total * d.MinAreaRatio)
	maxArea := int(total * d.MaxAreaRatio)

	detections := make([]entity.Detection, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c := contours.At(i)
		rect := gocv.BoundingRect(c)
		area := rect.Dx() * rect.Dy()
		if area < minArea || area > maxArea || rect.Dy() == 0 {
			continue
		}
		aspect := float64(rect.Dx()) / float64(rect.Dy())
		if aspect < d.MinAspectRatio || aspect > d.MaxAspectRatio {
			continue
		}

		region := blur.Region(rect)
		regionMean := region.Mean().Val1
		region.Close()

		// тёмная и плотно заполненная контуром область больше похожа на выбоину
		darkness := entity.Clamp((imageMean-regionMean)/64, 0, 1)
		fill := entity.Clamp(gocv.ContourArea(c)/float64(area), 0, 1)
		confidence := entity.Clamp(0.5*darkness+0.5*fill, 0, 1)
		if confidence < d.MinConfidence {
			continue
		}

		bbox, err := entity.NewBoundingBox(
			int(float64(rect.Min.X)/scale),
			int(float64(rect.Min.Y)/scale),
			int(float64(rect.Max.X)/scale),
			int(float64(rect.Max.Y)/scale),
		)
		if err != nil {
			continue
		}
		det, err := entity.NewDetection(bbox, confidence, "pothole")
		if err != nil {
			continue
		}
		detections = append(detections, det)
	}

	return detections, nil
}

// Highlight рисует рамки цветом уровня серьёзности и возвращает JPEG
func (d *GoCVDetector) Highlight(img image.Image, detections []entity.Detection) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	for _, det := range detections {
		c := severityColor(det.Severity)
		rect := image.Rect(det.BBox.X1, det.BBox.Y1, det.BBox.X2, det.BBox.Y2)
		gocv.Rectangle(&mat, rect, c, 2)

		label := fmt.Sprintf("%s %.2f | %s | risk %.2f", det.ClassName, det.Confidence, det.Severity, det.RiskScore)
		gocv.PutText(&mat, label, image.Pt(rect.Min.X, max(rect.Min.Y-6, 12)),
			gocv.FontHersheySimplex, 0.45, c, 1)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func severityColor(level entity.Severity) color.RGBA {
	switch level {
	case entity.SeverityCritical:
		return color.RGBA{R: 255, A: 255}
	case entity.SeverityHigh:
		return color.RGBA{R: 255, G: 165, A: 255}
	case entity.SeverityMedium:
		return color.RGBA{R: 255, G: 255, A: 255}
	case entity.SeverityLow, entity.SeverityNone:
		return color.RGBA{G: 255, A: 255}
	}
	return color.RGBA{G: 255, A: 255}
}

func (d *GoCVDetector) checkImageQuality(mat gocv.Mat) error {
	if mat.Cols() < d.MinImageSide || mat.Rows() < d.MinImageSide {
		return fmt.Errorf("%w: image is too small (%dx%d)", ErrQualityGate, mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < d.MinSharpnessEdgeRatio {
		return fmt.Errorf("%w: image is blurry (edge_ratio=%.4f)", ErrQualityGate, r)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > d.MaxOverexposedRatio {
		return fmt.Errorf("%w: overexposed image (ratio=%.4f)", ErrQualityGate, r)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > d.MaxUnderexposedRatio {
		return fmt.Errorf("%w: underexposed image (ratio=%.4f)", ErrQualityGate, r)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

// GoCVAnalyzer считает качество кадра через OpenCV; статистику областей считает ImageSampler
type GoCVAnalyzer struct{}

// NewImageAnalyzer анализатор изображений для текущей сборки
func NewImageAnalyzer() port.ImageAnalyzer {
	return GoCVAnalyzer{}
}

func (GoCVAnalyzer) Sampler(img image.Image) port.RegionSampler {
	return NewImageSampler(img)
}

// Quality та же формула, что и FrameQuality, на примитивах OpenCV
func (GoCVAnalyzer) Quality(img image.Image) float64 {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil || mat.Empty() {
		return FrameQuality(img)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	mean := gocv.NewMat()
	defer mean.Close()
	std := gocv.NewMat()
	defer std.Close()
	gocv.MeanStdDev(gray, &mean, &std)
	sd := std.GetDoubleAt(0, 0)
	variance := sd * sd

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	gocv.Magnitude(gx, gy, &magnitude)
	gradient := magnitude.Mean().Val1

	score := min(variance/varianceSaturation, 1)*varianceWeight +
		min(gradient/gradientSaturation, 1)*gradientWeight
	return entity.Clamp(score, 0, 1)
}

var (
	_ port.DefectDetector = (*GoCVDetector)(nil)
	_ port.ImageAnalyzer  = GoCVAnalyzer{}
)
