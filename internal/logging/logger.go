// Package logging provides config-driven categorized file-based logging for supportchat.
// Logs are written to <logs dir>/<date>_<category>.log, one file per category.
// Logging is controlled by debug_mode in the config file - when false, no logs are written.
// The TUI owns the terminal, so nothing here ever writes to stdout or stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config load
	CategorySession  Category = "session"  // Chat session lifecycle
	CategoryRouting  Category = "routing"  // Path resolution, composer transitions
	CategoryLoader   Category = "loader"   // Deferred module acquisition
	CategoryTimeline Category = "timeline" // Timeline appends
	CategoryReply    Category = "reply"    // Reply simulator scheduling
	CategoryUI       Category = "ui"       // TUI events
	CategoryConfig   Category = "config"   // Config watcher
)

// Config mirrors config.LoggingConfig to avoid circular imports.
type Config struct {
	DebugMode  bool
	Level      string
	JSONFormat bool
	Categories map[string]bool
}

// Logger is a category logger. A Logger obtained while logging is disabled
// is a no-op.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string

	config   Config
	configMu sync.RWMutex
	level    = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	nop = zap.NewNop().Sugar()
)

// Initialize sets up the logging directory. Should be called once at startup.
// With DebugMode false it only records the config and creates nothing.
func Initialize(dir string, cfg Config) error {
	if dir == "" {
		return fmt.Errorf("logs directory required")
	}

	CloseAll()

	configMu.Lock()
	config = cfg
	logsDir = dir
	level.SetLevel(parseLevel(cfg.Level))
	configMu.Unlock()

	if !cfg.DebugMode {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== supportchat logging initialized ===")
	boot.Info("Logs directory: %s", dir)
	boot.Info("Log level: %s", level.Level())
	return nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
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

	configMu.RLock()
	dir := logsDir
	jsonFormat := config.JSONFormat
	configMu.RUnlock()

	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &Logger{category: category}
	}

	var encoder zapcore.Encoder
	if jsonFormat {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000000")
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(file), level)

	l := &Logger{
		category: category,
		file:     file,
		sugar:    zap.New(core).Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

func (l *Logger) s() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return nop
	}
	return l.sugar
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.s().Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.s().Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.s().Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.s().Errorf(format, args...)
}

// StructuredLog writes msg with key/value fields at the given level.
func (l *Logger) StructuredLog(lvl string, msg string, fields map[string]interface{}) {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	switch parseLevel(lvl) {
	case zapcore.DebugLevel:
		l.s().Debugw(msg, kv...)
	case zapcore.WarnLevel:
		l.s().Warnw(msg, kv...)
	case zapcore.ErrorLevel:
		l.s().Errorw(msg, kv...)
	default:
		l.s().Infow(msg, kv...)
	}
}

// Enabled reports whether the logger writes anywhere.
func (l *Logger) Enabled() bool {
	return l != nil && l.sugar != nil
}

// CloseAll flushes and closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		_ = l.sugar.Sync()
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootError logs an error to the boot category
func BootError(format string, args ...interface{}) {
	Get(CategoryBoot).Error(format, args...)
}

// Session logs to the session category
func Session(format string, args ...interface{}) {
	Get(CategorySession).Info(format, args...)
}

// SessionDebug logs debug to the session category
func SessionDebug(format string, args ...interface{}) {
	Get(CategorySession).Debug(format, args...)
}

// Routing logs to the routing category
func Routing(format string, args ...interface{}) {
	Get(CategoryRouting).Info(format, args...)
}

// RoutingDebug logs debug to the routing category
func RoutingDebug(format string, args ...interface{}) {
	Get(CategoryRouting).Debug(format, args...)
}

// Loader logs to the loader category
func Loader(format string, args ...interface{}) {
	Get(CategoryLoader).Info(format, args...)
}

// LoaderError logs an error to the loader category
func LoaderError(format string, args ...interface{}) {
	Get(CategoryLoader).Error(format, args...)
}

// TimelineDebug logs debug to the timeline category
func TimelineDebug(format string, args ...interface{}) {
	Get(CategoryTimeline).Debug(format, args...)
}

// Reply logs to the reply category
func Reply(format string, args ...interface{}) {
	Get(CategoryReply).Info(format, args...)
}

// ReplyDebug logs debug to the reply category
func ReplyDebug(format string, args ...interface{}) {
	Get(CategoryReply).Debug(format, args...)
}

// UI logs to the ui category
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Info(format, args...)
}

// UIDebug logs debug to the ui category
func UIDebug(format string, args ...interface{}) {
	Get(CategoryUI).Debug(format, args...)
}

// ConfigWarn logs a warning to the config category
func ConfigWarn(format string, args ...interface{}) {
	Get(CategoryConfig).Warn(format, args...)
}

// ConfigInfo logs to the config category
func ConfigInfo(format string, args ...interface{}) {
	Get(CategoryConfig).Info(format, args...)
}

// =============================================================================
// TIMING
// =============================================================================

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer begins timing operation under category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.operation, elapsed)
	return elapsed
}
