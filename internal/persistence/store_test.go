package persistence

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open in-memory badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewStore(newTestDB(t), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func buildTestCanvas(t *testing.T) (*domain.Graph, *viewstate.ViewState) {
	t.Helper()
	g := domain.New()
	g, err := domain.AddNode(g, "n1", domain.RootID, domain.NodeData{Label: "Service A"})
	if err != nil {
		t.Fatal(err)
	}
	vs := viewstate.New()
	vs.SetNode("n1", viewstate.NodeGeometry{X: 10, Y: 10, W: 96, H: 96})
	return g, vs
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	g, vs := buildTestCanvas(t)
	now := time.Unix(1000, 0)

	snap := Capture(g, vs, "scope1", now)
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, ok, err := store.Load(context.Background(), now.Add(time.Minute), 24*time.Hour)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected a usable snapshot")
	}
	if loaded.ScopeID != "scope1" {
		t.Errorf("got scope %q, want scope1", loaded.ScopeID)
	}

	rg, rvs := Restore(loaded)
	if !rg.HasNode("n1") {
		t.Error("expected restored graph to contain n1")
	}
	if geo, ok := rvs.GetNode("n1"); !ok || geo.X != 10 {
		t.Error("expected restored view state to contain n1's geometry")
	}
}

func TestStore_LoadMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.Load(context.Background(), time.Now(), 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no snapshot present")
	}
}

func TestStore_LoadStaleSnapshotReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	g, vs := buildTestCanvas(t)
	old := time.Unix(1000, 0)

	snap := Capture(g, vs, "scope1", old)
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, ok, err := store.Load(context.Background(), old.Add(25*time.Hour), 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected a snapshot older than the TTL to be treated as absent")
	}
}

func TestStore_LoadCorruptedBlobReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(storageKey), []byte("not a valid gzip blob"))
	})
	if err != nil {
		t.Fatalf("seeding corrupt blob: %v", err)
	}

	_, ok, loadErr := store.Load(context.Background(), time.Now(), 24*time.Hour)
	if loadErr != nil {
		t.Fatalf("unexpected error: %v", loadErr)
	}
	if ok {
		t.Error("expected a corrupted blob to be treated as absent")
	}
}

func TestStore_ClearRemovesSnapshot(t *testing.T) {
	store := newTestStore(t)
	g, vs := buildTestCanvas(t)
	snap := Capture(g, vs, "scope1", time.Unix(1000, 0))
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	_, ok, err := store.Load(context.Background(), time.Now(), 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no snapshot after Clear")
	}
}
