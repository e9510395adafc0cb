package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewCoreWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "walletpage.log")

	core, err := NewCore(zapcore.InfoLevel, file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := slog.New(zapslog.NewHandler(core))
	logger.Debug("hidden")
	logger.Info("rendered wallet", "rows", 3)
	if err := core.Sync(); err != nil && !strings.Contains(err.Error(), "stdout") {
		t.Logf("sync: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"rendered wallet"`) {
		t.Errorf("log file missing info entry: %s", out)
	}
	if !strings.Contains(out, `"rows":3`) {
		t.Errorf("log file missing attribute: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	sync, err := Setup("debug", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sync()

	if !slog.Default().Enabled(t.Context(), slog.LevelDebug) {
		t.Error("debug level not enabled after Setup(\"debug\")")
	}
}
