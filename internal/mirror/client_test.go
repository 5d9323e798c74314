package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClient(rdb), mr
}

func TestFetchRowNotFound(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.FetchRow(context.Background(), "brand")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchRow() on missing row = %v, want ErrNotFound", err)
	}
}

func TestUpsertFetchRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	payload := []byte(`{"workspaces":[{"id":"brand"}]}`)
	now := time.Now()
	stored, err := client.UpsertRow(ctx, "brand", payload, 4, now)
	if err != nil {
		t.Fatalf("UpsertRow() error = %v", err)
	}

	row, err := client.FetchRow(ctx, "brand")
	if err != nil {
		t.Fatalf("FetchRow() error = %v", err)
	}
	if string(row.Data) != string(payload) {
		t.Errorf("row data = %s, want %s", row.Data, payload)
	}
	if row.SchemaVersion != 4 {
		t.Errorf("schema version = %d, want 4", row.SchemaVersion)
	}
	if !row.UpdatedAt.Equal(stored) {
		t.Errorf("updated at = %v, want %v", row.UpdatedAt, stored)
	}
}

func TestWorkspaceKeyNormalization(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if _, err := client.UpsertRow(ctx, " Brand ", []byte("one"), 4, time.Now()); err != nil {
		t.Fatalf("UpsertRow() error = %v", err)
	}

	for _, key := range []string{"brand", "BRAND", " Brand "} {
		row, err := client.FetchRow(ctx, key)
		if err != nil {
			t.Fatalf("FetchRow(%q) error = %v", key, err)
		}
		if row.WorkspaceKey != "brand" {
			t.Errorf("FetchRow(%q) resolved key %q, want brand", key, row.WorkspaceKey)
		}
		if string(row.Data) != "one" {
			t.Errorf("FetchRow(%q) = %s, want the same row", key, row.Data)
		}
	}

	keys, err := client.ListWorkspaceKeys(ctx)
	if err != nil {
		t.Fatalf("ListWorkspaceKeys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "brand" {
		t.Errorf("ListWorkspaceKeys() = %v, want exactly [brand]", keys)
	}
}

func TestUpsertTimestampsOnlyMoveForward(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	later := time.Now()
	first, err := client.UpsertRow(ctx, "brand", []byte("new"), 4, later)
	if err != nil {
		t.Fatalf("UpsertRow() error = %v", err)
	}

	// A write with an older caller timestamp must still land after the
	// stored one (last writer wins, timestamps strictly increase).
	second, err := client.UpsertRow(ctx, "brand", []byte("older clock"), 4, later.Add(-time.Minute))
	if err != nil {
		t.Fatalf("UpsertRow() error = %v", err)
	}
	if !second.After(first) {
		t.Errorf("second upsert timestamp %v did not move past %v", second, first)
	}

	row, err := client.FetchRow(ctx, "brand")
	if err != nil {
		t.Fatalf("FetchRow() error = %v", err)
	}
	if string(row.Data) != "older clock" {
		t.Error("last write should win regardless of caller clock")
	}
}

func TestFetchUpdatedAt(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if _, err := client.FetchUpdatedAt(ctx, "brand"); !errors.Is(err, ErrNotFound) {
		t.Error("FetchUpdatedAt() on missing row should report ErrNotFound")
	}

	stored, err := client.UpsertRow(ctx, "brand", []byte("x"), 4, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	got, err := client.FetchUpdatedAt(ctx, "brand")
	if err != nil {
		t.Fatalf("FetchUpdatedAt() error = %v", err)
	}
	if !got.Equal(stored) {
		t.Errorf("FetchUpdatedAt() = %v, want %v", got, stored)
	}
}

func TestTransientFailureIsNotNotFound(t *testing.T) {
	client, mr := newTestClient(t)
	mr.Close()

	_, err := client.FetchRow(context.Background(), "brand")
	if err == nil {
		t.Fatal("FetchRow() against a dead server should fail")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a transport failure must not be reported as ErrNotFound")
	}
}
