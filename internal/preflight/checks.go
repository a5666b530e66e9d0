package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"subpick/internal/deps"
)

const (
	minCacheFreeBytes = 64 << 20
	minLogFreeBytes   = 16 << 20
)

// CheckFFprobe verifies that the configured ffprobe binary resolves and runs.
func CheckFFprobe(ctx context.Context, binary string) Result {
	const name = "FFprobe"
	status := deps.CheckBinaries(ctx, []deps.Requirement{{
		Name:        name,
		Command:     binary,
		Description: "Required for media inspection",
		VersionArgs: []string{"-version"},
	}})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	if status.Version == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: -version failed)", status.Path)}
	}
	return Result{Name: name, Passed: true, Detail: status.Version}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCacheLocation verifies that dir (or, when it does not exist yet, its
// nearest existing ancestor) is writable and has at least minFree bytes available.
func CheckCacheLocation(name, dir string, minFree uint64) Result {
	target, pending, err := nearestExisting(dir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	access := CheckDirectoryAccess(name, target)
	if !access.Passed {
		return access
	}
	free, err := FreeBytes(target)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", dir, err)}
	}
	if free < minFree {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: only %d MiB free)", dir, free>>20)}
	}
	detail := fmt.Sprintf("%s (read/write ok, %d MiB free)", dir, free>>20)
	if pending {
		detail = fmt.Sprintf("%s (created on first use, %d MiB free)", dir, free>>20)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// FreeBytes reports the space available to unprivileged users on the
// filesystem holding path.
func FreeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func nearestExisting(dir string) (string, bool, error) {
	current := filepath.Clean(dir)
	pending := false
	for {
		_, err := os.Stat(current)
		if err == nil {
			return current, pending, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false, err
		}
		current = parent
		pending = true
	}
}
