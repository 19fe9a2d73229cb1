package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithOrderID(ctx, "ord-456")
	logg.Info(ctx, "hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log output is not json: %v", err)
	}
	if line["request_id"] != "req-123" {
		t.Fatalf("request_id missing from log line: %v", line)
	}
	if line["order_id"] != "ord-456" {
		t.Fatalf("order_id missing from log line: %v", line)
	}
	if line["service"] != "test" {
		t.Fatalf("service field missing: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("expected debug level")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for empty")
	}
	if ParseLevel("nope") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for junk")
	}
}
