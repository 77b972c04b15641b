package port

import (
	"context"
	"errors"

	"road-vision/internal/domain/entity"
)

// ErrReportNotFound отчёт не найден
var ErrReportNotFound = errors.New("report not found")

// ReportRepository интерфейс хранилища отчётов
type ReportRepository interface {
	// Save сохраняет отчёт
	Save(ctx context.Context, report *entity.StoredReport) error

	// Get возвращает отчёт по ID
	Get(ctx context.Context, id string) (*entity.StoredReport, error)

	// Latest возвращает последний отчёт пользователя
	Latest(ctx context.Context, userID int64) (*entity.StoredReport, error)
}
