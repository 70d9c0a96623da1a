package models

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryVersionStoreSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryVersionStore()

	if _, err := store.Latest(ctx); err != ErrNoInventory {
		t.Fatalf("expected ErrNoInventory, got %v", err)
	}
	next, err := store.NextVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if next != 1 {
		t.Errorf("first NextVersion = %d, want 1", next)
	}

	for i := 0; i < 3; i++ {
		rec := &InventoryVersion{StorageKey: "key", UploadedBy: "alice", RowCount: 10}
		if err := store.Persist(ctx, rec); err != nil {
			t.Fatal(err)
		}
		if rec.Version != i+1 {
			t.Errorf("Persist #%d allocated version %d", i+1, rec.Version)
		}
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Version != 3 {
		t.Errorf("Latest().Version = %d, want 3", latest.Version)
	}

	history, err := store.History(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].Version != 3 || history[1].Version != 2 {
		t.Errorf("History(2) = %+v", history)
	}
}

func TestMemoryVersionStoreConcurrentPersist(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryVersionStore()

	const n = 50
	var wg sync.WaitGroup
	versions := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := &InventoryVersion{StorageKey: "key", UploadedBy: "alice"}
			if err := store.Persist(ctx, rec); err != nil {
				t.Error(err)
				return
			}
			versions[i] = rec.Version
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, n)
	for _, v := range versions {
		if seen[v] {
			t.Fatalf("version %d allocated twice", v)
		}
		seen[v] = true
	}
	for v := 1; v <= n; v++ {
		if !seen[v] {
			t.Errorf("version %d never allocated", v)
		}
	}
}

func TestMemoryScanCacheStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryScanCacheStore()

	entry, err := store.Get(ctx, "deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatalf("expected miss, got %+v", entry)
	}

	put := &ScanCacheEntry{InputHash: "deadbeef", InventoryVersion: 1, ResultJSON: "[]", RowCount: 2}
	if err := store.Put(ctx, put); err != nil {
		t.Fatal(err)
	}
	entry, err = store.Get(ctx, "deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || entry.InventoryVersion != 1 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	// Upsert replaces the entry under the same hash.
	put2 := &ScanCacheEntry{InputHash: "deadbeef", InventoryVersion: 2, ResultJSON: "[]", RowCount: 2}
	if err := store.Put(ctx, put2); err != nil {
		t.Fatal(err)
	}
	entry, _ = store.Get(ctx, "deadbeef")
	if entry.InventoryVersion != 2 {
		t.Errorf("upsert kept stale inventory version %d", entry.InventoryVersion)
	}
}

func TestMemoryAuditStoreRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAuditStore()

	actions := []AuditAction{AuditActionUpload, AuditActionLookup, AuditActionScan}
	for _, a := range actions {
		if err := store.Append(ctx, &AuditEvent{Action: a, Username: "alice"}); err != nil {
			t.Fatal(err)
		}
	}

	events, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("Recent(2) returned %d events", len(events))
	}
	if events[0].Action != AuditActionScan || events[1].Action != AuditActionLookup {
		t.Errorf("wrong order: %+v", events)
	}
}
