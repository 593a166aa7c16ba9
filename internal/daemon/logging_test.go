package daemon

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	logger := slog.New(newMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)).With("component", "test")

	logger.Info("round recorded", "stars", 3)
	logger.Warn("storage slow")

	if !strings.Contains(debugBuf.String(), "round recorded") || !strings.Contains(debugBuf.String(), "storage slow") {
		t.Errorf("debug handler output = %q, want both records", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "round recorded") {
		t.Error("warn handler received an info record")
	}
	if !strings.Contains(warnBuf.String(), `"component":"test"`) {
		t.Errorf("warn handler output = %q, want component attribute", warnBuf.String())
	}
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := t.TempDir()
	var stderr bytes.Buffer

	f, err := SetupLogging(dir, slog.LevelInfo, &stderr)
	if err != nil {
		t.Fatalf("SetupLogging() error = %v", err)
	}
	slog.Info("daemon ready", "port", 7433)
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"daemon ready"`) {
		t.Errorf("log file = %q, want JSON record", data)
	}
	if !strings.Contains(stderr.String(), "daemon ready") {
		t.Errorf("stderr = %q, want text record", stderr.String())
	}
}
