package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fruitify/fruitify-backend/pkg/logger"
)

const (
	defaultFailureWindow    = 24 * time.Hour
	defaultFailureThreshold = 10
)

// failureChecker is satisfied by the telegram notifier.
type failureChecker interface {
	FailureSpike(ctx context.Context, window time.Duration, threshold int64) (bool, error)
}

type TelegramFailureWatchJobParams struct {
	Logger    *logger.Logger
	Checker   failureChecker
	Window    time.Duration
	Threshold int64
}

// telegramFailureWatchJob surfaces sustained delivery failures in the logs so
// an operator notices a dead bot token before customers do.
type telegramFailureWatchJob struct {
	logg      *logger.Logger
	checker   failureChecker
	window    time.Duration
	threshold int64
}

func NewTelegramFailureWatchJob(params TelegramFailureWatchJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Checker == nil {
		return nil, fmt.Errorf("failure checker required")
	}
	if params.Window <= 0 {
		params.Window = defaultFailureWindow
	}
	if params.Threshold <= 0 {
		params.Threshold = defaultFailureThreshold
	}
	return &telegramFailureWatchJob{
		logg:      params.Logger,
		checker:   params.Checker,
		window:    params.Window,
		threshold: params.Threshold,
	}, nil
}

func (j *telegramFailureWatchJob) Name() string { return "telegram_failure_watch" }

func (j *telegramFailureWatchJob) Run(ctx context.Context) error {
	spiking, err := j.checker.FailureSpike(ctx, j.window, j.threshold)
	if err != nil {
		return fmt.Errorf("checking failure spike: %w", err)
	}
	if spiking {
		ctx = j.logg.WithFields(ctx, map[string]any{
			"window":    j.window.String(),
			"threshold": j.threshold,
		})
		j.logg.Warn(ctx, "telegram delivery failures exceeded threshold")
	}
	return nil
}
