package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func reset(t *testing.T) {
	t.Helper()
	Close()
	t.Cleanup(func() {
		Close()
		stateMu.Lock()
		debug = false
		logsDir = ""
		logLevel = LevelInfo
		stateMu.Unlock()
	})
}

func TestDisabledLoggingIsNoOp(t *testing.T) {
	reset(t)
	root := t.TempDir()

	if err := Initialize(root, false, "info"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsDebugMode() {
		t.Error("debug mode reported enabled")
	}

	Get(CategoryMCP).Info("should go nowhere")

	if _, err := os.Stat(filepath.Join(root, "logs")); !os.IsNotExist(err) {
		t.Error("logs directory created while disabled")
	}
}

func TestEnabledLoggingWritesCategoryFiles(t *testing.T) {
	reset(t)
	root := t.TempDir()

	if err := Initialize(root, true, "debug"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Get(CategoryTools).Info("registered %d tools", 6)
	Get(CategoryTools).Debug("details")
	Close()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(root, "logs", date+"_tools.log"))
	if err != nil {
		t.Fatalf("tools log not written: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "[INFO] registered 6 tools") {
		t.Errorf("info line missing:\n%s", content)
	}
	if !strings.Contains(content, "[DEBUG] details") {
		t.Errorf("debug line missing:\n%s", content)
	}
}

func TestLevelFiltering(t *testing.T) {
	reset(t)
	root := t.TempDir()

	if err := Initialize(root, true, "warn"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	l := Get(CategoryMedia)
	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("visible warn")
	l.Error("visible error")
	Close()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(root, "logs", date+"_media.log"))
	if err != nil {
		t.Fatalf("media log not written: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "hidden") {
		t.Errorf("filtered levels were written:\n%s", content)
	}
	if !strings.Contains(content, "[WARN] visible warn") || !strings.Contains(content, "[ERROR] visible error") {
		t.Errorf("warn/error lines missing:\n%s", content)
	}
}

func TestGetReturnsSameLogger(t *testing.T) {
	reset(t)
	if err := Initialize(t.TempDir(), true, "info"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if Get(CategoryAI) != Get(CategoryAI) {
		t.Error("Get created a second logger for the same category")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"loud", LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
