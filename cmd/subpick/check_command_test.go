package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	env := setupCLITestEnv(t, "original")
	stub := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho ffprobe version stub\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	appendConfig(t, env.configPath, "\n[media]\nffprobe_binary = \""+stub+"\"\n")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Readiness ==")
	requireContains(t, out, "[OK] ffprobe version stub")
	requireContains(t, out, "Probe cache:")
}

func TestCheckCommandReportsMissingFFprobe(t *testing.T) {
	env := setupCLITestEnv(t, "original")
	appendConfig(t, env.configPath, "\n[media]\nffprobe_binary = \"clearly-not-present-ffprobe\"\n")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check failure for missing ffprobe")
	}
	requireContains(t, out, "[ERROR]")
}

func appendConfig(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append config: %v", err)
	}
}
