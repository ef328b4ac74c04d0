package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenEmptyPathDiscards(t *testing.T) {
	l, c, err := Open("", slog.LevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	l.Info("dropped")
}

func TestOpenAppends(t *testing.T) {
	p := filepath.Join(t.TempDir(), "debug.log")
	l, c, err := Open(p, slog.LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("hidden")
	l.Info("user created", "username", "ada")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if strings.Contains(out, "hidden") || !strings.Contains(out, "username=ada") {
		t.Fatalf("log file:\n%s", out)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelWarn).Warn("careful", "n", 1)
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("got %q", buf.String())
	}
}
