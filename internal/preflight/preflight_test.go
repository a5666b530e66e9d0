package preflight

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"subpick/internal/config"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCacheLocation(t *testing.T) {
	base := t.TempDir()

	existing := CheckCacheLocation("cache", base, 1)
	if !existing.Passed || !strings.Contains(existing.Detail, "read/write ok") {
		t.Fatalf("expected existing dir to pass, got %+v", existing)
	}

	pending := CheckCacheLocation("cache", filepath.Join(base, "a", "b"), 1)
	if !pending.Passed || !strings.Contains(pending.Detail, "created on first use") {
		t.Fatalf("expected missing dir to pass as pending, got %+v", pending)
	}
	if _, err := os.Stat(filepath.Join(base, "a")); !os.IsNotExist(err) {
		t.Fatal("check must not create directories")
	}

	full := CheckCacheLocation("cache", base, ^uint64(0))
	if full.Passed || !strings.Contains(full.Detail, "free") {
		t.Fatalf("expected free-space failure, got %+v", full)
	}
}

func TestFreeBytes(t *testing.T) {
	free, err := FreeBytes(t.TempDir())
	if err != nil {
		t.Fatalf("FreeBytes returned error: %v", err)
	}
	if free == 0 {
		t.Fatal("expected some free space in temp dir")
	}
}

func TestCheckFFprobe(t *testing.T) {
	ok := writeStub(t, "#!/bin/sh\necho \"ffprobe version 7.1 Copyright\"\n")
	if result := CheckFFprobe(context.Background(), ok); !result.Passed || !strings.HasPrefix(result.Detail, "ffprobe version 7.1") {
		t.Fatalf("expected ffprobe stub to pass, got %+v", result)
	}

	broken := writeStub(t, "#!/bin/sh\nexit 3\n")
	if result := CheckFFprobe(context.Background(), broken); result.Passed {
		t.Fatalf("expected failing stub to fail, got %+v", result)
	}

	if result := CheckFFprobe(context.Background(), "clearly-not-present-ffprobe"); result.Passed {
		t.Fatal("expected missing binary to fail")
	}
}

func TestRunAll(t *testing.T) {
	cfg := config.Default()
	cfg.Media.FFprobeBinary = writeStub(t, "#!/bin/sh\necho ffprobe version test\n")
	cfg.Media.ProbeCache = filepath.Join(t.TempDir(), "cache", "probe.db")
	cfg.Logging.Dir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("expected %s to pass, got %s", result.Name, result.Detail)
		}
	}

	cfg.Media.ProbeCache = ""
	cfg.Logging.Dir = ""
	if got := len(RunAll(context.Background(), &cfg)); got != 1 {
		t.Fatalf("expected only the ffprobe check, got %d", got)
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
