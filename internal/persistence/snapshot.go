// Package persistence implements the single-slot canvas snapshot: the
// whole session's Domain graph, ViewState and active scope id, stored
// as one gzip-compressed JSON blob under a fixed BadgerDB key, with a
// summary history row per recorded snapshot kept in a SQLite mirror.
package persistence

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// SnapshotSchemaVersion identifies the wire format of Snapshot. Bump it
// whenever the shape changes in a breaking way.
const SnapshotSchemaVersion = "1.0"

// storageKey is the single BadgerDB key a session's snapshot lives
// under: there is exactly one live canvas per process, not a library of
// named snapshots.
const storageKey = "archcanvas:snapshot:current"

// Snapshot is the full persisted state of one canvas session.
type Snapshot struct {
	SchemaVersion string                    `json:"schemaVersion"`
	Domain        *domain.SerializableGraph `json:"rawGraph"`
	ViewState     viewstate.Snapshot        `json:"viewState"`
	ScopeID       string                    `json:"selectedArchitectureId"`
	TimestampUnix int64                     `json:"timestamp"`
}

// Capture builds a Snapshot from the live graph, view state and active
// scope id, stamped with now.
func Capture(g *domain.Graph, vs *viewstate.ViewState, scopeID string, now time.Time) Snapshot {
	return Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Domain:        g.ToSerializable(),
		ViewState:     vs.ToSnapshot(),
		ScopeID:       scopeID,
		TimestampUnix: now.Unix(),
	}
}

// Restore reconstructs a Domain graph and ViewState from s.
func Restore(s Snapshot) (*domain.Graph, *viewstate.ViewState) {
	return domain.FromSerializable(s.Domain), viewstate.FromSnapshot(s.ViewState)
}

// Stale reports whether s is older than ttl as measured from now —
// the "missing, corrupted, or older than the TTL all resolve to no
// restoration" rule.
func (s Snapshot) Stale(now time.Time, ttl time.Duration) bool {
	age := now.Sub(time.Unix(s.TimestampUnix, 0))
	return age > ttl
}

// Valid reports whether s carries both halves of the state it claims
// to: a snapshot missing its raw graph or view state is treated the
// same as a corrupted one. ViewState is a value type, so a JSON blob
// that omits the field entirely decodes to a Snapshot with every
// viewstate map left nil — the same shape a corrupted blob would have.
func (s Snapshot) Valid() bool {
	if s.Domain == nil || s.SchemaVersion == "" {
		return false
	}
	vs := s.ViewState
	return vs.Nodes != nil || vs.Groups != nil || vs.Edges != nil || vs.Layout != nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("persistence: gzip writer: %w", err)
	}
	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("persistence: gzip write: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("persistence: gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("persistence: gzip reader: %w", err)
	}
	defer gr.Close()
	out, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("persistence: gzip read: %w", err)
	}
	return out, nil
}

func marshal(s Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("persistence: marshal snapshot: %w", err)
	}
	return compress(raw)
}

func unmarshal(blob []byte) (Snapshot, error) {
	raw, err := decompress(blob)
	if err != nil {
		return Snapshot{}, err
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, fmt.Errorf("persistence: unmarshal snapshot: %w", err)
	}
	return s, nil
}
