package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"info":    LogLevelInfo,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"":        LogLevelInfo,
		"bogus":   LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogLevel_String(t *testing.T) {
	if LogLevelDebug.String() != "DEBUG" || LogLevelError.String() != "ERROR" {
		t.Fatal("unexpected level strings")
	}
	if LogLevel(42).String() != "UNKNOWN" {
		t.Fatal("unexpected string for out-of-range level")
	}
}

func newBufferedLogger(level LogLevel) (*ChatVaultLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf})
	return l, &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestChatVaultLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("visible")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("suppressed levels leaked: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatal("warn entry missing")
	}
}

func TestChatVaultLogger_ContextualAttrs(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.WithComponent("registry").
		WithSession("Sprint_Planning").
		WithRequest("req-1").
		WithContext("attempt", 2).
		Info("saved snapshot", "blob_name", "b1")

	entry := lastEntry(t, buf)
	if entry["component"] != "registry" || entry["session_id"] != "Sprint_Planning" {
		t.Fatalf("missing contextual attrs: %#v", entry)
	}
	if entry["request_id"] != "req-1" || entry["blob_name"] != "b1" {
		t.Fatalf("missing attrs: %#v", entry)
	}
	if entry["attempt"] != float64(2) {
		t.Fatalf("missing context attr: %#v", entry)
	}
}

func TestChatVaultLogger_WithDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	_ = l.WithComponent("child").WithContext("k", "v")
	l.Info("parent entry")

	entry := lastEntry(t, buf)
	if _, ok := entry["component"]; ok {
		t.Fatalf("parent logger picked up child attrs: %#v", entry)
	}
}

func TestChatVaultLogger_LogBlobOperation(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.LogBlobOperation("put", "b1", 25*time.Millisecond, nil)
	entry := lastEntry(t, buf)
	if entry["msg"] != "blob operation completed" || entry["operation"] != "put" {
		t.Fatalf("unexpected entry: %#v", entry)
	}

	l.LogBlobOperation("get", "b2", time.Millisecond, errors.New("boom"))
	entry = lastEntry(t, buf)
	if entry["msg"] != "blob operation failed" || entry["error"] != "boom" {
		t.Fatalf("unexpected failure entry: %#v", entry)
	}
}

func TestChatVaultLogger_LogModelCall(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelInfo)

	l.LogModelCall("gpt-4o-mini", 128, 300*time.Millisecond, nil)
	entry := lastEntry(t, buf)
	if entry["msg"] != "model call completed" || entry["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["token_count"] != float64(128) {
		t.Fatalf("unexpected token count: %#v", entry)
	}
}

func TestNewSlogLogger_TextFormat(t *testing.T) {
	// Construction only; the text handler writes to stdout.
	l := NewSlogLogger(LogLevelDebug, "text")
	if l == nil {
		t.Fatal("expected logger")
	}
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("a")
	l.Info("b", "k", "v")
	l.Warn("c")
	l.Error("d")
}
