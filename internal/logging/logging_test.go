package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    zapcore.Level
	}{
		{"", false, zapcore.InfoLevel},
		{"warn", false, zapcore.WarnLevel},
		{"error", true, zapcore.DebugLevel},
		{"debug", false, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.level, tt.verbose)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.level, err)
		}
		if got := logger.Level(); got != tt.want {
			t.Errorf("New(%q, %v) level = %v, want %v", tt.level, tt.verbose, got, tt.want)
		}
	}

	if _, err := New("shouty", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
