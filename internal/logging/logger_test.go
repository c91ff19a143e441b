package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	logger := NewLogger(Config{Output: &bytes.Buffer{}})
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info level to be enabled")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("%q: expected %v, got %v", raw, want, got)
		}
	}
}

func TestJSONLoggerCarriesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Service: "league-engine", Version: "test", Output: &buf})
	logger.Info("hello", FieldSeed, 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if rec[FieldService] != "league-engine" || rec[FieldVersion] != "test" {
		t.Fatalf("expected service fields, got %v", rec)
	}
	if rec[FieldSeed] != float64(7) {
		t.Fatalf("expected seed field, got %v", rec[FieldSeed])
	}
}

func TestHelpersAreNilSafe(t *testing.T) {
	Debug(nil, "ignored")
	Info(nil, "ignored")
	Warn(nil, "ignored")
	Error(nil, "ignored", errors.New("boom"))
}

func TestErrorAppendsError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Output: &buf})
	Error(logger, "failed", errors.New("boom"), FieldCount, 2)
	out := buf.String()
	if !strings.Contains(out, "error=boom") || !strings.Contains(out, "count=2") {
		t.Fatalf("expected error and count fields, got %q", out)
	}
}

func TestDebugRespectsLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer
	Debug(NewLogger(Config{Output: &quiet}), "fixture played", FieldFixture, 3)
	Debug(NewLogger(Config{Level: "debug", Output: &verbose}), "fixture played", FieldFixture, 3)
	if quiet.Len() != 0 {
		t.Fatalf("expected debug to be dropped at info level, got %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "fixture=3") {
		t.Fatalf("expected the fixture field at debug level, got %q", verbose.String())
	}
}
