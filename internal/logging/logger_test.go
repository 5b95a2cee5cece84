package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/qualuo/ai-lab/internal/services"
)

func newTestConsoleLogger(buf *bytes.Buffer, colorize bool) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(buf, lvl, false, colorize))
}

func TestConsoleHandlerLineFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, false)

	logger.Info("installer ready", String("dependency", "ollama"))

	line := strings.TrimRight(buf.String(), "\n")
	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] installer ready dependency=ollama$`)
	if !pattern.MatchString(line) {
		t.Fatalf("unexpected console line: %q", line)
	}
}

func TestConsoleHandlerWarningLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, false)

	logger.Warn("not elevated")

	if !strings.Contains(buf.String(), "[WARNING]") {
		t.Fatalf("expected WARNING label, got %q", buf.String())
	}
}

func TestConsoleHandlerColorizedLabels(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, true)

	logger.Error("pull failed")

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escape in colored output, got %q", buf.String())
	}
}

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, false).With(String(FieldComponent, "model-fetcher"))

	logger.Info("pull complete")

	if !strings.Contains(buf.String(), "] model-fetcher: pull complete") {
		t.Fatalf("expected component prefix, got %q", buf.String())
	}
}

func TestNewWritesLogFilePlain(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")

	logger, err := New(Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
		Color:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	logger.Error("download failed", String("url", "http://example.test"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Fatalf("log file should not contain ANSI escapes: %q", data)
	}
	if !strings.Contains(string(data), "[ERROR] download failed") {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	base := newTestConsoleLogger(&buf, false)

	ctx := services.WithRunID(context.Background(), "abc")
	ctx = services.WithStage(ctx, "preflight")
	logger := WithContext(ctx, base)

	logger.Info("check passed")

	line := buf.String()
	if !strings.Contains(line, "run_id=abc") || !strings.Contains(line, "stage=preflight") {
		t.Fatalf("expected context fields, got %q", line)
	}
}

func TestCleanupOldLogsPrunesByAgeAndPattern(t *testing.T) {
	dir := t.TempDir()
	oldLog := filepath.Join(dir, "ailab-20200101T000000Z.log")
	freshLog := filepath.Join(dir, "ailab-fresh.log")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, path := range []string{oldLog, freshLog, unrelated} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().AddDate(0, 0, -90)
	if err := os.Chtimes(oldLog, stale, stale); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(unrelated, stale, stale); err != nil {
		t.Fatal(err)
	}

	CleanupOldLogs(NewNop(), 30, RetentionTarget{Dir: dir, Pattern: "ailab-*.log"})

	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatal("expected stale log to be pruned")
	}
	if _, err := os.Stat(freshLog); err != nil {
		t.Fatal("expected fresh log to survive")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatal("expected non-matching file to survive")
	}
}
