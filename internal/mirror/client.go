// Package mirror is the remote side of the backup path: one logical table
// with one row per normalized workspace key, accessed only by point lookup
// and point upsert. The table lives in redis as one hash per row.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planloop/planloop/internal/domain"
)

// ErrNotFound reports that no row exists for a workspace key. It is a
// normal first-use outcome, distinguishable from a failure to reach redis.
var ErrNotFound = errors.New("workspace row not found")

const (
	fieldData          = "data"
	fieldSchemaVersion = "schema_version"
	fieldUpdatedAt     = "updated_at" // unix milliseconds
)

// Row is one mirrored workspace record.
type Row struct {
	WorkspaceKey  string
	Data          []byte // opaque JSON blob of the full app state
	SchemaVersion int
	UpdatedAt     time.Time
}

// Client performs the two row operations against redis.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a mirror client on an established redis connection.
func NewClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// FetchRow retrieves the row for a workspace key, or ErrNotFound.
func (c *Client) FetchRow(ctx context.Context, workspaceKey string) (*Row, error) {
	key := domain.NormalizeWorkspaceKey(workspaceKey)
	fields, err := c.rdb.HGetAll(ctx, RowKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch row for %q: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	row := &Row{
		WorkspaceKey: key,
		Data:         []byte(fields[fieldData]),
	}
	if v, err := strconv.Atoi(fields[fieldSchemaVersion]); err == nil {
		row.SchemaVersion = v
	}
	row.UpdatedAt = parseMillis(fields[fieldUpdatedAt])
	return row, nil
}

// FetchUpdatedAt retrieves only a row's timestamp. This is the cheap probe
// the poll loop uses to detect newer remote data.
func (c *Client) FetchUpdatedAt(ctx context.Context, workspaceKey string) (time.Time, error) {
	key := domain.NormalizeWorkspaceKey(workspaceKey)
	raw, err := c.rdb.HGet(ctx, RowKey(key), fieldUpdatedAt).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to fetch timestamp for %q: %w", key, err)
	}
	return parseMillis(raw), nil
}

// UpsertRow inserts or replaces the row for a workspace key and returns the
// stored timestamp. Timestamps only move forward: an upsert that would go
// backwards relative to the stored row is bumped past it.
func (c *Client) UpsertRow(ctx context.Context, workspaceKey string, data []byte, schemaVersion int, updatedAt time.Time) (time.Time, error) {
	key := domain.NormalizeWorkspaceKey(workspaceKey)
	// Stored precision is milliseconds; truncate up front so the returned
	// timestamp equals what a later fetch will read back.
	updatedAt = time.UnixMilli(updatedAt.UnixMilli()).UTC()

	prev, err := c.FetchUpdatedAt(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return time.Time{}, err
	}
	if !updatedAt.After(prev) {
		updatedAt = prev.Add(time.Millisecond)
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, RowKey(key), map[string]any{
		fieldData:          data,
		fieldSchemaVersion: schemaVersion,
		fieldUpdatedAt:     updatedAt.UnixMilli(),
	})
	pipe.SAdd(ctx, AllRowsKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return time.Time{}, fmt.Errorf("failed to upsert row for %q: %w", key, err)
	}
	return updatedAt, nil
}

// ListWorkspaceKeys returns every workspace key that has a mirrored row.
func (c *Client) ListWorkspaceKeys(ctx context.Context) ([]string, error) {
	keys, err := c.rdb.SMembers(ctx, AllRowsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace keys: %w", err)
	}
	return keys, nil
}

func parseMillis(raw string) time.Time {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
