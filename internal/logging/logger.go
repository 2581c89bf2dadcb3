// Package logging provides categorized file-based logging for
// videomcp. Stdout carries the JSON-RPC protocol stream, so internal
// diagnostics go to per-category files under <output root>/logs.
// Logging is a no-op unless debug mode is enabled in the config.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and capability gating
	CategoryMCP     Category = "mcp"     // JSON-RPC traffic and dispatch
	CategoryTools   Category = "tools"   // Tool registration and execution
	CategoryMedia   Category = "media"   // ffmpeg/ffprobe invocations
	CategoryYouTube Category = "youtube" // yt-dlp invocations
	CategoryAI      Category = "ai"      // Hosted inference calls
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	stateMu  sync.RWMutex
	logsDir  string
	debug    bool
	logLevel = LevelInfo
)

// Initialize sets up the logging directory. When debugMode is false
// every logger is a silent no-op and no directory is created.
func Initialize(root string, debugMode bool, level string) error {
	stateMu.Lock()
	debug = debugMode
	logLevel = parseLevel(level)
	logsDir = filepath.Join(root, "logs")
	dir := logsDir
	stateMu.Unlock()

	if !debugMode {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== videomcp logging initialized ===")
	boot.Info("Logs directory: %s", dir)
	boot.Info("Log level: %s", level)
	return nil
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return debug
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled.
func Get(category Category) *Logger {
	stateMu.RLock()
	enabled := debug && logsDir != ""
	dir := logsDir
	stateMu.RUnlock()

	if !enabled {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	// Date-prefixed file name for easy rotation.
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(dir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Close closes all open log files.
func Close() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for cat, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...any) {
	if l.logger == nil || currentLevel() > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	if l.logger == nil || currentLevel() > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	if l.logger == nil || currentLevel() > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

func currentLevel() int {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return logLevel
}

// Convenience helpers, one pair per hot category.

func MCP(format string, args ...any)          { Get(CategoryMCP).Info(format, args...) }
func MCPDebug(format string, args ...any)     { Get(CategoryMCP).Debug(format, args...) }
func Tools(format string, args ...any)        { Get(CategoryTools).Info(format, args...) }
func ToolsDebug(format string, args ...any)   { Get(CategoryTools).Debug(format, args...) }
func Media(format string, args ...any)        { Get(CategoryMedia).Info(format, args...) }
func MediaDebug(format string, args ...any)   { Get(CategoryMedia).Debug(format, args...) }
func YouTube(format string, args ...any)      { Get(CategoryYouTube).Info(format, args...) }
func YouTubeDebug(format string, args ...any) { Get(CategoryYouTube).Debug(format, args...) }
func AI(format string, args ...any)           { Get(CategoryAI).Info(format, args...) }
func AIDebug(format string, args ...any)      { Get(CategoryAI).Debug(format, args...) }
