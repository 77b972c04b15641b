package entity

import (
	"encoding/json"
	"fmt"
)

// BoundingBox прямоугольник в пикселях: (X1,Y1) левый верхний угол, (X2,Y2) правый нижний.
// Сериализуется в JSON как массив [x1, y1, x2, y2].
type BoundingBox struct {
	X1, Y1, X2, Y2 int
}

// NewBoundingBox создаёт рамку и проверяет, что X2>X1 и Y2>Y1
func NewBoundingBox(x1, y1, x2, y2 int) (BoundingBox, error) {
	b := BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
	if !b.Valid() {
		return BoundingBox{}, fmt.Errorf("%w: (%d,%d,%d,%d)", ErrInvalidGeometry, x1, y1, x2, y2)
	}
	return b, nil
}

// Valid сообщает, что рамка не вырождена и не перевёрнута
func (b BoundingBox) Valid() bool {
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

func (b BoundingBox) Width() int  { return b.X2 - b.X1 }
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }

// Area площадь рамки в пикселях; для невалидной рамки 0
func (b BoundingBox) Area() int {
	if !b.Valid() {
		return 0
	}
	return b.Width() * b.Height()
}

// Center возвращает координаты центра рамки
func (b BoundingBox) Center() (x, y int) {
	return b.X1 + b.Width()/2, b.Y1 + b.Height()/2
}

// Intersection площадь пересечения двух рамок
func (b BoundingBox) Intersection(o BoundingBox) int {
	left := max(b.X1, o.X1)
	top := max(b.Y1, o.Y1)
	right := min(b.X2, o.X2)
	bottom := min(b.Y2, o.Y2)
	if right <= left || bottom <= top {
		return 0
	}
	return (right - left) * (bottom - top)
}

// IoU отношение площади пересечения к площади объединения.
// Для непересекающихся рамок и нулевого объединения возвращает 0.
func IoU(a, b BoundingBox) float64 {
	inter := a.Intersection(b)
	if inter == 0 {
		return 0
	}
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return clampUnit(float64(inter) / float64(union))
}

// OverlapRatio мера совпадения рамок для сопоставления детекций с текстом
// и детекций с треками. Одна формула на все места вызова.
func OverlapRatio(a, b BoundingBox) float64 {
	return IoU(a, b)
}

func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X1, b.Y1, b.X2, b.Y2})
}

func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var v [4]int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	*b = BoundingBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	return nil
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%d,%d,%d,%d]", b.X1, b.Y1, b.X2, b.Y2)
}

func clampUnit(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp ограничивает значение отрезком [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
