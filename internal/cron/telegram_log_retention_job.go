package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fruitify/fruitify-backend/internal/notify/telegram"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

const defaultRetentionDays = 30

// TelegramLogRetentionJobParams configure the audit-log retention job.
type TelegramLogRetentionJobParams struct {
	Logger        *logger.Logger
	Repository    telegram.LogRepository
	RetentionDays int
}

// telegramLogRetentionJob deletes audit rows older than the retention window
// so the append-only log does not grow without bound.
type telegramLogRetentionJob struct {
	logg      *logger.Logger
	repo      telegram.LogRepository
	retention time.Duration
	now       func() time.Time
}

// NewTelegramLogRetentionJob builds the retention job.
func NewTelegramLogRetentionJob(params TelegramLogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("telegram log repository required")
	}
	days := params.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	return &telegramLogRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: time.Duration(days) * 24 * time.Hour,
		now:       time.Now,
	}, nil
}

func (j *telegramLogRetentionJob) Name() string {
	return "telegram_log_retention"
}

func (j *telegramLogRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("deleting expired telegram logs: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "deleted", deleted), "telegram log retention applied")
	return nil
}
