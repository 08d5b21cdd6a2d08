package logger_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nikbrunner/popmark/internal/logger"
)

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if !logger.ValidLevel(lvl) {
			t.Errorf("expected %q to be valid", lvl)
		}
	}
	if logger.ValidLevel("verbose") {
		t.Error("expected verbose to be invalid")
	}
}

func TestFromZap_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core)).With(logger.String("component", "state"))

	log.Warn("save failed", logger.Error(errors.New("disk full")))
	log.Infof("loaded %d bookmarks", 3)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "state" || ctx["error"] != "disk full" {
		t.Errorf("unexpected context: %v", ctx)
	}
	if entries[1].Message != "loaded 3 bookmarks" {
		t.Errorf("unexpected message: %q", entries[1].Message)
	}
}

func TestNewFile_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "popmark.log")

	log, err := logger.NewFile("info", path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	log.Debug("hidden")
	log.Info("visible", logger.Int("n", 1))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(out, `"msg":"visible"`) {
		t.Errorf("expected JSON line, got %q", out)
	}
}

func TestNewNop(t *testing.T) {
	log := logger.NewNop()
	log.Error("ignored")
	if err := log.Sync(); err != nil {
		t.Errorf("unexpected sync error: %v", err)
	}
}
