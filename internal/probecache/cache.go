package probecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"subpick/internal/logging"
	"subpick/internal/media/ffprobe"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Cache is a SQLite-backed ffprobe result cache. A nil *Cache is valid and
// behaves as an always-empty cache.
type Cache struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Stats summarizes cache contents.
type Stats struct {
	Entries int
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Open connects to (or creates) the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("probe cache: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure probe cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{
		db:     db,
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "probecache"),
	}
	if err := cache.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Path returns the database location.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Close releases the database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached probe for mediaPath when the stored size and
// modification time still match info.
func (c *Cache) Lookup(ctx context.Context, mediaPath string, info fs.FileInfo) (ffprobe.Result, bool, error) {
	if c == nil || info == nil {
		return ffprobe.Result{}, false, nil
	}
	key, err := cacheKey(mediaPath)
	if err != nil {
		return ffprobe.Result{}, false, err
	}

	var payload []byte
	err = retryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx,
			"SELECT probe_json FROM probes WHERE path = ? AND size = ? AND mod_time = ?",
			key, info.Size(), info.ModTime().UnixNano(),
		).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ffprobe.Result{}, false, nil
	}
	if err != nil {
		return ffprobe.Result{}, false, fmt.Errorf("probe cache lookup: %w", err)
	}

	result, err := ffprobe.Parse(payload)
	if err != nil {
		c.logger.Debug("discarding unreadable probe cache entry",
			logging.String("path", key),
			logging.Error(err),
		)
		return ffprobe.Result{}, false, nil
	}
	return result, true, nil
}

// Store records result for mediaPath, replacing any previous entry.
func (c *Cache) Store(ctx context.Context, mediaPath string, info fs.FileInfo, result ffprobe.Result) error {
	if c == nil || info == nil {
		return nil
	}
	key, err := cacheKey(mediaPath)
	if err != nil {
		return err
	}
	payload := result.RawJSON()
	if len(payload) == 0 {
		payload, err = json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode probe result: %w", err)
		}
	}

	err = retryOnBusy(ctx, func() error {
		_, execErr := c.db.ExecContext(ctx,
			`INSERT INTO probes (path, size, mod_time, probe_json, cached_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(path) DO UPDATE SET size = excluded.size, mod_time = excluded.mod_time,
			 probe_json = excluded.probe_json, cached_at = excluded.cached_at`,
			key, info.Size(), info.ModTime().UnixNano(), payload, time.Now().Unix(),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("probe cache store: %w", err)
	}
	return nil
}

// Stats reports the number and total payload size of cached probes.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	if c == nil {
		return Stats{}, nil
	}
	var stats Stats
	var oldest, newest sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(LENGTH(probe_json)), 0), MIN(cached_at), MAX(cached_at) FROM probes",
	).Scan(&stats.Entries, &stats.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("probe cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	return stats, nil
}

// Prune deletes entries whose files vanished or changed since they were
// cached. It returns the number of removed entries. When another process is
// already pruning, Prune returns immediately with ok=false.
func (c *Cache) Prune(ctx context.Context) (removed int, ok bool, err error) {
	if c == nil {
		return 0, true, nil
	}
	locked, err := c.lock.TryLock()
	if err != nil {
		return 0, false, fmt.Errorf("acquire prune lock: %w", err)
	}
	if !locked {
		c.logger.Debug("probe cache prune already running elsewhere")
		return 0, false, nil
	}
	defer func() { _ = c.lock.Unlock() }()

	rows, err := c.db.QueryContext(ctx, "SELECT path, size, mod_time FROM probes")
	if err != nil {
		return 0, true, fmt.Errorf("probe cache scan: %w", err)
	}
	var stale []string
	for rows.Next() {
		var (
			path    string
			size    int64
			modTime int64
		)
		if err := rows.Scan(&path, &size, &modTime); err != nil {
			_ = rows.Close()
			return 0, true, fmt.Errorf("probe cache scan: %w", err)
		}
		info, statErr := os.Stat(path)
		if statErr != nil || info.Size() != size || info.ModTime().UnixNano() != modTime {
			stale = append(stale, path)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, true, fmt.Errorf("probe cache scan: %w", err)
	}
	if err := rows.Err(); err != nil {
		return 0, true, fmt.Errorf("probe cache scan: %w", err)
	}

	for _, path := range stale {
		err := retryOnBusy(ctx, func() error {
			_, execErr := c.db.ExecContext(ctx, "DELETE FROM probes WHERE path = ?", path)
			return execErr
		})
		if err != nil {
			return removed, true, fmt.Errorf("probe cache delete: %w", err)
		}
		removed++
	}
	if removed > 0 {
		c.logger.Info("probe cache pruned", logging.Int("removed", removed))
	}
	return removed, true, nil
}

// Clear removes every cached probe.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	if c == nil {
		return 0, nil
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = c.db.ExecContext(ctx, "DELETE FROM probes")
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("probe cache clear: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("probe cache clear: %w", err)
	}
	return int(affected), nil
}

func cacheKey(mediaPath string) (string, error) {
	abs, err := filepath.Abs(strings.TrimSpace(mediaPath))
	if err != nil {
		return "", fmt.Errorf("resolve media path: %w", err)
	}
	return abs, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
