package persistence

import (
	"testing"
	"time"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

func TestRestore_GroupWithNoStoredModeDefaultsToFree(t *testing.T) {
	g := domain.New()
	g, err := domain.AddNode(g, "group1", domain.RootID, domain.NodeData{IsGroup: true})
	if err != nil {
		t.Fatal(err)
	}
	vs := viewstate.New()
	vs.SetGroup("group1", viewstate.GroupGeometry{X: 0, Y: 0, W: 200, H: 200})
	// No SetMode call: group1's mode was never recorded.

	snap := Capture(g, vs, "root", time.Unix(5000, 0))
	_, restoredVS := Restore(snap)

	if mode := restoredVS.GetMode("group1"); mode != viewstate.ModeFree {
		t.Errorf("expected a restored group with no stored mode to default to FREE, got %v", mode)
	}
}

func TestSnapshot_StaleBoundary(t *testing.T) {
	snap := Snapshot{SchemaVersion: "1.0", Domain: &domain.SerializableGraph{}, TimestampUnix: 1000}
	now := time.Unix(1000, 0).Add(24 * time.Hour)
	if snap.Stale(now, 24*time.Hour) {
		t.Error("expected exactly-24h-old snapshot to not yet be stale")
	}
	if !snap.Stale(now.Add(time.Second), 24*time.Hour) {
		t.Error("expected a snapshot one second past the TTL to be stale")
	}
}

func TestSnapshot_InvalidWhenDomainMissing(t *testing.T) {
	snap := Snapshot{SchemaVersion: "1.0"}
	if snap.Valid() {
		t.Error("expected a snapshot with no domain graph to be invalid")
	}
}
