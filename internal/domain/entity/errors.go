package entity

import "errors"

var (
	// ErrInvalidGeometry рамка с нечисловыми или перевёрнутыми координатами
	ErrInvalidGeometry = errors.New("invalid bounding box geometry")
	// ErrInvalidConfidence уверенность вне [0,1] или не конечное число
	ErrInvalidConfidence = errors.New("invalid confidence")
	// ErrOutOfOrderFrame номер кадра не возрастает строго; сессия обработки завершается
	ErrOutOfOrderFrame = errors.New("frame number is not strictly increasing")
	// ErrEmptyRegion область изображения пуста или вне его границ
	ErrEmptyRegion = errors.New("empty image region")
	// ErrFrameLimitReached достигнут лимит обрабатываемых кадров
	ErrFrameLimitReached = errors.New("frame limit reached")
)
