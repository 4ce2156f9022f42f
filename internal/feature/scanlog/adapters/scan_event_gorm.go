package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	cardentity "meishi_backend/internal/feature/cardscan/domain/entity"
	cardusecase "meishi_backend/internal/feature/cardscan/usecase"
	"meishi_backend/internal/feature/scanlog/usecase"
)

type scanEventRepository struct {
	db *gorm.DB
}

var (
	_ cardusecase.ScanRecorder    = (*scanEventRepository)(nil)
	_ usecase.ScanEventRepository = (*scanEventRepository)(nil)
)

func NewScanEventRepository(db *gorm.DB) *scanEventRepository {
	return &scanEventRepository{db: db}
}

// ScanEventModel はscan_eventsテーブルの行です。
type ScanEventModel struct {
	ID              uint      `gorm:"primaryKey"`
	CreatedAt       time.Time `gorm:"not null;index"`
	Outcome         string    `gorm:"size:32;not null;index"`
	FailedStage     string    `gorm:"size:32"`
	OCRBackend      string    `gorm:"column:ocr_backend;size:32"`
	ResearchBackend string    `gorm:"size:32"`
	ExtractMs       int64     `gorm:"not null;default:0"`
	ParseMs         int64     `gorm:"not null;default:0"`
	ResearchMs      int64     `gorm:"not null;default:0"`
}

func (ScanEventModel) TableName() string {
	return "scan_events"
}

func toModel(e cardentity.ScanEvent) ScanEventModel {
	return ScanEventModel{
		CreatedAt:       e.OccurredAt,
		Outcome:         string(e.Outcome),
		FailedStage:     string(e.FailedStage),
		OCRBackend:      e.OCRBackend,
		ResearchBackend: e.ResearchBackend,
		ExtractMs:       e.Timings.Extract.Milliseconds(),
		ParseMs:         e.Timings.Parse.Milliseconds(),
		ResearchMs:      e.Timings.Research.Milliseconds(),
	}
}

func (r *scanEventRepository) RecordScan(ctx context.Context, event cardentity.ScanEvent) error {
	m := toModel(event)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *scanEventRepository) CountByOutcome(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		Count   int64
	}
	q := r.db.WithContext(ctx).
		Model(&ScanEventModel{}).
		Select("outcome, COUNT(*) AS count").
		Group("outcome")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Outcome] = row.Count
	}
	return out, nil
}
