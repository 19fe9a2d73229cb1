package telegram

import (
	"context"
	"time"

	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"gorm.io/gorm"
)

// LogRepository persists the append-only notification audit rows.
type LogRepository interface {
	Create(ctx context.Context, log *models.TelegramLog) error
	Recent(ctx context.Context, limit int) ([]models.TelegramLog, error)
	CountFailedSince(ctx context.Context, since time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository builds a telegram log repository bound to the provided DB.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, log *models.TelegramLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *logRepository) Recent(ctx context.Context, limit int) ([]models.TelegramLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.TelegramLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *logRepository) CountFailedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TelegramLog{}).
		Where("status = ? AND created_at >= ?", "failed", since).
		Count(&count).Error
	return count, err
}

func (r *logRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.TelegramLog{})
	return res.RowsAffected, res.Error
}
