package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

const reportSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id                TEXT PRIMARY KEY,
	user_id           BIGINT NOT NULL,
	source            TEXT NOT NULL,
	created_at        BIGINT NOT NULL,
	overall_condition TEXT NOT NULL,
	overall_priority  TEXT NOT NULL,
	total_detections  INTEGER NOT NULL,
	payload           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_user_created ON reports (user_id, created_at DESC);
`

// SQLiteReportRepository хранит отчёты в sqlite: сводные поля в колонках, сам отчёт в JSON
type SQLiteReportRepository struct {
	db *sql.DB
}

// NewSQLiteReportRepository открывает (и при необходимости создаёт) базу по пути
func NewSQLiteReportRepository(path string) (*SQLiteReportRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(reportSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate reports: %w", err)
	}

	return &SQLiteReportRepository{db: db}, nil
}

func (r *SQLiteReportRepository) Close() error {
	return r.db.Close()
}

// Save сохраняет отчёт; повторное сохранение с тем же ID перезаписывает запись
func (r *SQLiteReportRepository) Save(ctx context.Context, report *entity.StoredReport) error {
	payload, err := json.Marshal(report.Report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", report.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reports
			(id, user_id, source, created_at, overall_condition, overall_priority, total_detections, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.UserID,
		report.Source,
		report.CreatedAt.UnixNano(),
		report.Report.RoadConditionAnalysis.OverallCondition.String(),
		report.Report.MaintenanceAnalysis.OverallPriority.String(),
		report.Report.DetectionSummary.TotalDetections,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}
	return nil
}

func (r *SQLiteReportRepository) Get(ctx context.Context, id string) (*entity.StoredReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, source, created_at, payload FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

func (r *SQLiteReportRepository) Latest(ctx context.Context, userID int64) (*entity.StoredReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, source, created_at, payload FROM reports
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, userID)
	return scanReport(row)
}

func scanReport(row *sql.Row) (*entity.StoredReport, error) {
	var (
		rep     entity.StoredReport
		created int64
		payload string
	)
	if err := row.Scan(&rep.ID, &rep.UserID, &rep.Source, &created, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, port.ErrReportNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &rep.Report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", rep.ID, err)
	}
	rep.CreatedAt = time.Unix(0, created).UTC()
	return &rep, nil
}

var _ port.ReportRepository = (*SQLiteReportRepository)(nil)
