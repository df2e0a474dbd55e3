package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewWritesJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := ContextWithRequestID(context.Background(), "req-7")
	WithRequestID(ctx, log).Debug("task created")
	_ = log.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "req-7" || entry["msg"] != "task created" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("missing timestamp key")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, _ := New(Config{Level: "not-a-level", Output: &buf})
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug written at fallback info level: %s", buf.String())
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID = %q", got)
	}
	if WithRequestID(context.Background(), nil) != nil {
		t.Error("nil logger should stay nil")
	}
}
