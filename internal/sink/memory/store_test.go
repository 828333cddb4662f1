package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"nucascade/internal/sink"
)

func TestStoreBasicFlow(t *testing.T) {
	ctx := context.Background()
	store := New()
	if store.Driver() != sink.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	key := sink.EventsKey("run-7")
	info, err := store.Put(ctx, key, bytes.NewReader([]byte("1 3\n")), sink.PutOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != key || info.Size != 4 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), sink.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate failure")
	}
	if _, err := store.Head(ctx, key); err != nil {
		t.Fatalf("head: %v", err)
	}
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "1 3\n" {
		t.Fatalf("get mismatch: %q", b)
	}
	list, err := store.List(ctx, "runs/")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
	ok, err := store.Delete(ctx, key)
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, key)
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestStoreMissingKeyErrors(t *testing.T) {
	ctx := context.Background()
	store := New()
	if _, err := store.Head(ctx, "nope"); err == nil {
		t.Fatalf("expected head error")
	}
	if _, _, err := store.Get(ctx, "nope"); err == nil {
		t.Fatalf("expected get error")
	}
	if _, err := store.PresignURL(ctx, "nope", sink.SignedURLOptions{}); !errors.Is(err, sink.ErrUnsupported) {
		t.Fatalf("expected unsupported presign: %v", err)
	}
}

func TestStoreCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := New()
	md := map[string]string{"seed": "42"}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("abc")), sink.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["seed"] = "mutated"
	info, rc, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Metadata["seed"] != "42" {
		t.Fatalf("stored metadata not isolated: %+v", info.Metadata)
	}
	info.Metadata["seed"] = "again"
	h, err := store.Head(ctx, "k")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.Metadata["seed"] != "42" {
		t.Fatalf("returned metadata not isolated: %+v", h.Metadata)
	}
}

func TestStoreListPrefixOrdering(t *testing.T) {
	ctx := context.Background()
	store := New()
	for _, key := range []string{"runs/b/events.hepevt", "runs/a/events.hepevt", "other/x"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("d")), sink.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	list, err := store.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "runs/a/events.hepevt" || list[1].Key != "runs/b/events.hepevt" {
		t.Fatalf("unexpected list %+v", list)
	}
}
