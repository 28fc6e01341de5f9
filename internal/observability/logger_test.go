package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/driftfield/internal/config"
)

func TestLBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	L().Info("dropped")
}

func TestInitializeConsole(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))
	L().Debug("frame", zap.Int("n", 3))
	Sync()

	out := buf.String()
	if !strings.Contains(out, `"msg":"frame"`) {
		t.Errorf("expected json entry, got %q", out)
	}
	if !strings.Contains(out, `"n":3`) {
		t.Errorf("expected field in entry, got %q", out)
	}
}

func TestInitializeLevelFilter(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	L().Info("quiet")
	Sync()
	if buf.Len() != 0 {
		t.Errorf("expected info filtered at warn level, got %q", buf.String())
	}
}

func TestInitializeFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "logs", "driftfield.log")
	Initialize(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, nil)
	L().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("expected entry in file, got %q", data)
	}
}

func TestInitializeOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	L().Info("hello")
	Sync()
	if first.Len() == 0 || second.Len() != 0 {
		t.Errorf("expected only the first writer used: first=%d second=%d", first.Len(), second.Len())
	}
}
