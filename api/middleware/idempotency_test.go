package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeIdempotencyStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (s *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "fruitify:idempotency:" + scope + ":" + id
}

func (s *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func placeOrderRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"order":"first"}}`))
	}))

	req := placeOrderRequest(`{"items":[]}`)
	req.Header.Set("Idempotency-Key", "k-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	replay := placeOrderRequest(`{"items":[]}`)
	replay.Header.Set("Idempotency-Key", "k-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, replay)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order":"first"`)
	assert.Equal(t, 1, calls, "second request must be served from the stored record")
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	handler := Idempotency(store, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := placeOrderRequest(`{"items":[{"quantity":1}]}`)
	req.Header.Set("Idempotency-Key", "k-2")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	reused := placeOrderRequest(`{"items":[{"quantity":99}]}`)
	reused.Header.Set("Idempotency-Key", "k-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, reused)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotencySkipsUnlistedRoutes(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Idempotency-Key", "k-3")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req.Clone(req.Context()))

	assert.Equal(t, 2, calls)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	t.Parallel()

	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))

	handler.ServeHTTP(httptest.NewRecorder(), placeOrderRequest(`{}`))
	handler.ServeHTTP(httptest.NewRecorder(), placeOrderRequest(`{}`))

	assert.Equal(t, 2, calls)
}
