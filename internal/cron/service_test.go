package cron

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/fruitify/fruitify-backend/internal/notify/telegram"
	"github.com/fruitify/fruitify-backend/pkg/db/models"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cron_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`CREATE TABLE IF NOT EXISTS telegram_logs (
  id TEXT PRIMARY KEY,
  order_id TEXT,
  type TEXT NOT NULL,
  payload TEXT NOT NULL,
  attempts INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  status TEXT NOT NULL,
  created_at DATETIME
);`).Error)
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (s *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[key]; exists {
		return false, nil
	}
	str, ok := value.(string)
	if !ok {
		return false, errors.New("memory store expects string values")
	}
	s.values[key] = str
	return true, nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

type countingJob struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	return j.err
}

func (j *countingJob) Runs() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestRedisLockMutualExclusion(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	first, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second instance must not win the lock")

	require.NoError(t, first.Release(ctx))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "lock should be free after release")
}

func TestRedisLockReleaseOnlyByOwner(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	loser, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)
	winner, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := winner.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// A lock that never acquired must not clobber the winner's entry.
	require.NoError(t, loser.Release(ctx))

	ok, err = loser.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "winner still holds the lock")
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	held, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)
	ok, err := held.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	lock, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)

	job := &countingJob{}
	svc, err := NewService(ServiceParams{
		Logger: testLogger(),
		Jobs:   []Job{job},
		Lock:   lock,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	assert.Equal(t, 0, job.Runs())
}

func TestRunCycleRunsAllJobsAndReleases(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	lock, err := NewRedisLock(store, "fruitify:lock:cron", time.Hour)
	require.NoError(t, err)

	first := &countingJob{}
	failing := &countingJob{err: errors.New("boom")}
	last := &countingJob{}

	svc, err := NewService(ServiceParams{
		Logger: testLogger(),
		Jobs:   []Job{first, failing, last},
		Lock:   lock,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))

	assert.Equal(t, 1, first.Runs())
	assert.Equal(t, 1, failing.Runs())
	assert.Equal(t, 1, last.Runs(), "a failing job must not stop later jobs")

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "lock should be released after the cycle")
}

func TestTelegramLogRetentionJob(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := telegram.NewLogRepository(conn)

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	stale := models.TelegramLog{
		ID:        uuid.New(),
		Type:      "order",
		Payload:   "old order",
		Attempts:  1,
		Status:    enums.TelegramLogStatusSuccess,
		CreatedAt: now.AddDate(0, 0, -45),
	}
	fresh := models.TelegramLog{
		ID:        uuid.New(),
		Type:      "order",
		Payload:   "recent order",
		Attempts:  3,
		Status:    enums.TelegramLogStatusFailed,
		CreatedAt: now.AddDate(0, 0, -2),
	}
	require.NoError(t, conn.Create(&stale).Error)
	require.NoError(t, conn.Create(&fresh).Error)

	job, err := NewTelegramLogRetentionJob(TelegramLogRetentionJobParams{
		Logger:        testLogger(),
		Repository:    repo,
		RetentionDays: 30,
	})
	require.NoError(t, err)
	job.(*telegramLogRetentionJob).now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	remaining, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}
