package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// resetGlobal restores the pre-Init state so each test can initialize.
func resetGlobal(t *testing.T) {
	t.Helper()
	prevLog, prevSugar := Log, Sugar
	initialized.Store(false)
	t.Cleanup(func() {
		Log, Sugar = prevLog, prevSugar
		initialized.Store(false)
	})
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	// MaxSize is in MB; 1MB is the smallest lumberjack allows.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}

	log := New(zapcore.DebugLevel, cfg, nil)

	// Each line is ~300 bytes, so this exceeds 1MB.
	longMessage := strings.Repeat("x", 200)
	sugar := log.Sugar()
	for i := 0; i < 15000; i++ {
		sugar.Infof("Log entry %d: %s", i, longMessage)
	}
	_ = log.Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var logFiles []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "test") && strings.Contains(f.Name(), ".log") {
			logFiles = append(logFiles, f.Name())
		}
	}

	t.Logf("Found %d log files: %v", len(logFiles), logFiles)

	if len(logFiles) < 2 {
		t.Errorf("expected at least 2 log files (rotation), got %d", len(logFiles))
	}

	// Rotated files are named test-YYYY-MM-DDTHH-MM-SS.SSS.log
	for _, name := range logFiles {
		if name != "test.log" && !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s doesn't have expected timestamp format", name)
		}
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    zapcore.Level
		expected []string
		excluded []string
	}{
		{
			level:    zapcore.ErrorLevel,
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    zapcore.WarnLevel,
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    zapcore.InfoLevel,
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    zapcore.DebugLevel,
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), "levels.log")

			log := New(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, nil)
			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")
			_ = log.Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestSessionField(t *testing.T) {
	var buf bytes.Buffer
	log := New(zapcore.InfoLevel, FileConfig{}, &buf)
	log.Info("hello")
	_ = log.Sync()

	if !strings.Contains(buf.String(), SessionID) {
		t.Errorf("expected session id %s in %q", SessionID, buf.String())
	}
}

func TestInitOnlyOnce(t *testing.T) {
	resetGlobal(t)

	var buf bytes.Buffer
	if err := InitWithFileConfig(zapcore.InfoLevel, FileConfig{}, &buf); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	err := InitWithFileConfig(zapcore.DebugLevel, FileConfig{}, &buf)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	if err := Init(zapcore.DebugLevel, ""); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized from Init, got %v", err)
	}

	// The first level stays in effect.
	Debug("hidden")
	Info("visible", zap.Int("n", 1))
	Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message leaked after rejected re-init")
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected info message in %q", out)
	}
}

func TestSugarAfterInit(t *testing.T) {
	resetGlobal(t)

	var buf bytes.Buffer
	if err := InitWithFileConfig(zapcore.DebugLevel, FileConfig{}, &buf); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	Sugar.Debugf("config: %+v", struct{ Width int }{1600})
	_ = Sugar.Sync()

	out := buf.String()
	if !strings.Contains(out, "config: {Width:1600}") {
		t.Errorf("expected formatted message in %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("expected caller to point at the test, got %q", out)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	resetGlobal(t)
	Log, Sugar = zap.NewNop(), zap.NewNop().Sugar()

	// Must not panic.
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	Sync()
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 {
		t.Errorf("expected MaxSizeMB 50, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 7 {
		t.Errorf("expected MaxAgeDays 7, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
