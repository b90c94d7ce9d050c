package persistence

import (
	"testing"

	"github.com/archcanvas/archcanvas/internal/domain"
)

func TestDiff_ReportsAddedAndRemovedIDs(t *testing.T) {
	base := Snapshot{
		ScopeID: "root",
		Domain: &domain.SerializableGraph{
			Nodes: []domain.SerializableNode{{ID: "a"}, {ID: "b"}},
			Edges: []domain.SerializableEdge{{ID: "e1"}},
		},
	}
	target := Snapshot{
		ScopeID: "root",
		Domain: &domain.SerializableGraph{
			Nodes: []domain.SerializableNode{{ID: "b"}, {ID: "c"}},
			Edges: []domain.SerializableEdge{{ID: "e1"}, {ID: "e2"}},
		},
	}

	d := Diff(base, target)
	if len(d.NodesAdded) != 1 || d.NodesAdded[0] != "c" {
		t.Errorf("expected NodesAdded=[c], got %v", d.NodesAdded)
	}
	if len(d.NodesRemoved) != 1 || d.NodesRemoved[0] != "a" {
		t.Errorf("expected NodesRemoved=[a], got %v", d.NodesRemoved)
	}
	if len(d.EdgesAdded) != 1 || d.EdgesAdded[0] != "e2" {
		t.Errorf("expected EdgesAdded=[e2], got %v", d.EdgesAdded)
	}
	if d.ScopeChanged {
		t.Error("expected ScopeChanged false for identical scope ids")
	}
}

func TestDiff_NilDomainIsEmptyDiff(t *testing.T) {
	d := Diff(Snapshot{}, Snapshot{})
	if len(d.NodesAdded) != 0 || len(d.NodesRemoved) != 0 {
		t.Error("expected an empty diff when either snapshot has no domain")
	}
}
