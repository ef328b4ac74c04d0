package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	got := ProgressBar(1, 2, 10)
	if want := "[█████░░░░░] 1/2"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := ProgressBar(0, 0, 1); !strings.HasSuffix(got, "0/1") {
		t.Fatalf("zero total: %q", got)
	}
}

func TestPanelFramesContent(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")
	out := Panel("hello")
	lines := strings.Split(out, "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], "hello") {
		t.Fatalf("panel:\n%s", out)
	}
}

func TestOKFail(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")
	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	if got := buf.String(); got != "x added\n✖ nope\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSetThemeFallsBack(t *testing.T) {
	SetTheme("does-not-exist")
	if Current().Name != "classic" {
		t.Fatalf("theme = %s", Current().Name)
	}
	SetTheme("NEON")
	if Current().Name != "neon" {
		t.Fatalf("theme = %s", Current().Name)
	}
	SetTheme("classic")
}
