package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeFailureChecker struct {
	spiking bool
	err     error
	window  time.Duration
}

func (f *fakeFailureChecker) FailureSpike(ctx context.Context, window time.Duration, threshold int64) (bool, error) {
	f.window = window
	return f.spiking, f.err
}

func TestTelegramFailureWatchJobUsesDefaults(t *testing.T) {
	checker := &fakeFailureChecker{}
	job, err := NewTelegramFailureWatchJob(TelegramFailureWatchJobParams{
		Logger:  testLogger(),
		Checker: checker,
	})
	if err != nil {
		t.Fatalf("NewTelegramFailureWatchJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if checker.window != defaultFailureWindow {
		t.Fatalf("expected default window %s, got %s", defaultFailureWindow, checker.window)
	}
}

func TestTelegramFailureWatchJobPropagatesErrors(t *testing.T) {
	job, err := NewTelegramFailureWatchJob(TelegramFailureWatchJobParams{
		Logger:  testLogger(),
		Checker: &fakeFailureChecker{err: errors.New("db down")},
	})
	if err != nil {
		t.Fatalf("NewTelegramFailureWatchJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing checker")
	}
}
