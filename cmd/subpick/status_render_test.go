package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		kind     statusKind
		message  string
		colorize bool
		want     string
	}{
		{"ok with message", statusOK, "ffprobe 7.1", false, "  FFprobe:           [OK] ffprobe 7.1"},
		{"error without message", statusError, "", false, "  FFprobe:           [ERROR]"},
		{"colorized info", statusInfo, "x", true, ansiBlue + "  FFprobe:           [INFO] x" + ansiReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderStatusLine("FFprobe", tt.kind, tt.message, tt.colorize); got != tt.want {
				t.Fatalf("renderStatusLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader(" Readiness ", false)
	if len(lines) != 2 || lines[0] != "== Readiness ==" || lines[1] != strings.Repeat("-", len("== Readiness ==")) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers must never be colorized")
	}
}
