package probecache

import (
	"context"
	_ "embed"
	"fmt"

	"subpick/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever the table layout changes. Older caches are
// dropped and rebuilt.
const schemaVersion = 1

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	c.logger.Info("rebuilding probe cache",
		logging.String(logging.FieldEventType, "probe_cache_schema_reset"),
		logging.Int("found_version", version),
		logging.Int("want_version", schemaVersion),
	)
	if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS probes; DROP TABLE IF EXISTS schema_version;"); err != nil {
		return fmt.Errorf("drop stale schema: %w", err)
	}
	return c.createSchema(ctx)
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
