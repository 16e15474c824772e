package blobstore

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "ledger")
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if ok {
		t.Fatal("expected absent key")
	}

	blob := []byte(`[{"id":1}]`)
	if err := store.Set(ctx, "ledger", blob); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := store.Get(ctx, "ledger")
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("expected %s, got %s", blob, got)
	}

	// Overwrite replaces the prior snapshot in full
	if err := store.Set(ctx, "ledger", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = store.Get(ctx, "ledger")
	if string(got) != `[]` {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestMemoryStoreCopiesBlobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	blob := []byte("abc")
	if err := store.Set(ctx, "k", blob); err != nil {
		t.Fatalf("set: %v", err)
	}
	blob[0] = 'z'

	got, _, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored blob was aliased: %s", got)
	}
	got[0] = 'z'

	again, _, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned blob was aliased: %s", again)
	}
}
