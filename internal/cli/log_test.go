package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotgrid/pkg/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("saved layout") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("measured") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("measured") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("layout loaded")

	if !strings.Contains(buf.String(), "layout loaded") {
		t.Errorf("progress output = %q", buf.String())
	}
	if prog.elapsed() < 0 {
		t.Error("elapsed should not be negative")
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to a default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestRotatingFile(t *testing.T) {
	if f := rotatingFile(config.LogConfig{}); f != nil {
		t.Error("no file configured should give no writer")
	}

	path := filepath.Join(t.TempDir(), "plotgrid.log")
	f := rotatingFile(config.LogConfig{File: path, MaxSizeMB: 5, MaxBackups: 2, MaxAgeDays: 7})
	if f == nil {
		t.Fatal("rotatingFile returned nil")
	}
	defer f.Close()

	if f.MaxSize != 5 || f.MaxBackups != 2 || f.MaxAge != 7 || !f.Compress {
		t.Errorf("rotation settings = %+v", f)
	}

	newLogger(f, log.InfoLevel).Info("serving", "addr", "127.0.0.1:8320")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "serving") {
		t.Errorf("log file = %q", data)
	}
}
