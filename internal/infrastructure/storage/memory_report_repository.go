package storage

import (
	"context"
	"sync"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// MemoryReportRepository in-memory хранилище отчётов, используется без базы данных
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]entity.StoredReport
	latest  map[int64]string
}

func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{
		reports: make(map[string]entity.StoredReport),
		latest:  make(map[int64]string),
	}
}

func (r *MemoryReportRepository) Save(ctx context.Context, report *entity.StoredReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports[report.ID] = *report
	if cur, ok := r.latest[report.UserID]; !ok || !report.CreatedAt.Before(r.reports[cur].CreatedAt) {
		r.latest[report.UserID] = report.ID
	}
	return nil
}

func (r *MemoryReportRepository) Get(ctx context.Context, id string) (*entity.StoredReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[id]
	if !ok {
		return nil, port.ErrReportNotFound
	}
	return &rep, nil
}

func (r *MemoryReportRepository) Latest(ctx context.Context, userID int64) (*entity.StoredReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.latest[userID]
	if !ok {
		return nil, port.ErrReportNotFound
	}
	rep := r.reports[id]
	return &rep, nil
}

var _ port.ReportRepository = (*MemoryReportRepository)(nil)
