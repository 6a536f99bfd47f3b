package fs

import (
	"context"
	"errors"
	"testing"

	"baukatalog/internal/blob/core"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := store.Put(ctx, "catalogs/x.json", []byte(`{"@_nr":"00"}`))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Checksum == "" || info.Size != int64(len(`{"@_nr":"00"}`)) {
		t.Fatalf("info = %+v", info)
	}

	got, payload, err := store.Get(ctx, "catalogs/x.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(payload) != `{"@_nr":"00"}` {
		t.Fatalf("payload = %s", payload)
	}
	if got.Checksum != info.Checksum {
		t.Fatalf("checksum drifted: %q vs %q", got.Checksum, info.Checksum)
	}

	if _, err := store.Put(ctx, "catalogs/x.json", []byte("y")); !errors.Is(err, core.ErrKeyExists) {
		t.Fatalf("duplicate key: expected ErrKeyExists, got %v", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, _, err := store.Get(context.Background(), "catalogs/none.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"catalogs/b", "catalogs/a", "imports/c"} {
		if _, err := store.Put(ctx, key, []byte("x")); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := store.List(ctx, "catalogs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "catalogs/a" || infos[1].Key != "catalogs/b" {
		t.Fatalf("infos = %+v", infos)
	}
	if infos[0].Size != 1 || infos[0].StoredAt.IsZero() {
		t.Fatalf("listing lost file facts: %+v", infos[0])
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "/abs", "a/../../escape"} {
		if _, err := store.Put(ctx, key, []byte("x")); err == nil {
			t.Fatalf("key %q must be rejected", key)
		}
	}
}
