package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigure_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mdpad.log")
	if err := Configure(path, "debug"); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	t.Cleanup(Close)

	L().Debug("render", "words", 3)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if entry["msg"] != "render" {
		t.Errorf("msg = %v, want render", entry["msg"])
	}
	if entry["words"] != float64(3) {
		t.Errorf("words = %v, want 3", entry["words"])
	}
}

func TestConfigure_Off(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdpad.log")
	if err := Configure(path, "off"); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	t.Cleanup(Close)

	L().Error("should be dropped")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("log file should not be created when logging is off")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	t.Cleanup(Close)

	L().Info("hidden")
	L().Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record should be written")
	}
}

func TestError_NilIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")
	t.Cleanup(Close)

	Error("save failed", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	Error("save failed", errors.New("disk full"), "path", "a.md")
	if !strings.Contains(buf.String(), "disk full") || !strings.Contains(buf.String(), "a.md") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
