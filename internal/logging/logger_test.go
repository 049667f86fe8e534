package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogging(t *testing.T) {
	t.Helper()
	CloseAll()
	configMu.Lock()
	config = Config{}
	logsDir = ""
	configMu.Unlock()
	t.Cleanup(func() {
		CloseAll()
		configMu.Lock()
		config = Config{}
		logsDir = ""
		configMu.Unlock()
	})
}

func logFile(dir string, cat Category) string {
	return filepath.Join(dir, time.Now().Format("2006-01-02")+"_"+string(cat)+".log")
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, Config{DebugMode: true, Level: "debug"}))
	assert.True(t, IsDebugMode())

	categories := []Category{
		CategoryBoot,
		CategorySession,
		CategoryRouting,
		CategoryLoader,
		CategoryTimeline,
		CategoryReply,
		CategoryUI,
		CategoryConfig,
	}

	for _, cat := range categories {
		assert.True(t, IsCategoryEnabled(cat), "category %s", cat)
		l := Get(cat)
		l.Info("Test info message for %s", cat)
		l.Debug("Test debug message for %s", cat)
		l.Warn("Test warn message for %s", cat)
		l.Error("Test error message for %s", cat)
	}
	CloseAll()

	for _, cat := range categories {
		data, err := os.ReadFile(logFile(dir, cat))
		require.NoError(t, err, "log file for %s", cat)
		content := string(data)
		assert.Contains(t, content, "Test info message for "+string(cat))
		assert.Contains(t, content, "Test debug message for "+string(cat))
	}
}

func TestDisabledModeWritesNothing(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, Initialize(dir, Config{DebugMode: false}))
	assert.False(t, IsDebugMode())

	l := Get(CategoryRouting)
	assert.False(t, l.Enabled())
	l.Info("should not appear")
	Routing("nor this")

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "logs dir must not be created in production mode")
}

func TestCategoryFilter(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, Config{
		DebugMode:  true,
		Categories: map[string]bool{"reply": false, "routing": true},
	}))

	assert.True(t, IsCategoryEnabled(CategoryRouting))
	assert.False(t, IsCategoryEnabled(CategoryReply))
	assert.True(t, IsCategoryEnabled(CategoryLoader), "unlisted categories default to enabled")

	Reply("dropped")
	Routing("kept")
	CloseAll()

	_, err := os.Stat(logFile(dir, CategoryReply))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(logFile(dir, CategoryRouting))
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
}

func TestLevelFiltersDebug(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, Config{DebugMode: true, Level: "warn"}))
	l := Get(CategorySession)
	l.Debug("quiet debug")
	l.Info("quiet info")
	l.Warn("loud warn")
	CloseAll()

	data, err := os.ReadFile(logFile(dir, CategorySession))
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "quiet")
	assert.Contains(t, content, "loud warn")
}

func TestJSONFormatStructuredLog(t *testing.T) {
	resetLogging(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(dir, Config{DebugMode: true, JSONFormat: true}))
	Get(CategoryLoader).StructuredLog("info", "module settled", map[string]interface{}{
		"module": "workspace",
		"state":  "ready",
	})
	CloseAll()

	data, err := os.ReadFile(logFile(dir, CategoryLoader))
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON line, got %q", line)
	assert.Contains(t, line, `"module":"workspace"`)
	assert.Contains(t, line, `"msg":"module settled"`)
}

func TestInitializeRequiresDir(t *testing.T) {
	resetLogging(t)
	assert.Error(t, Initialize("", Config{}))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("nothing")
		l.StructuredLog("error", "nothing", nil)
	})
	assert.False(t, l.Enabled())
}

func TestTimerStop(t *testing.T) {
	resetLogging(t)
	timer := StartTimer(CategoryLoader, "noop")
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))
}
