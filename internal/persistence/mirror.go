package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archcanvas/archcanvas/internal/domain"
	_ "modernc.org/sqlite"
)

// Mirror is a secondary SQLite-backed history of snapshot summaries
// (scope id, node and edge counts, timestamp), one row per Record call;
// cmd/canvasd records into it on every signal. It is never read from on
// the restoration path, only BadgerDB is authoritative there.
type Mirror struct {
	db *sql.DB
}

// NewMirror opens (creating if necessary) a SQLite database at path in
// WAL mode and ensures its schema exists. Pass ":memory:" for tests.
func NewMirror(path string) (*Mirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening sqlite mirror: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("persistence: %s: %w", pragma, err)
		}
	}

	m := &Mirror{db: db}
	if err := m.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func (m *Mirror) createSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scope_id TEXT NOT NULL,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			saved_at_unix INTEGER NOT NULL
		)
	`
	if _, err := m.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("persistence: creating sqlite schema: %w", err)
	}
	return nil
}

// Record appends one row describing snap to the mirror's history. It
// never replaces the BadgerDB row Store.Save wrote; the two stores are
// updated independently from the same Snapshot value. The node count
// excludes the root sentinel.
func (m *Mirror) Record(ctx context.Context, snap Snapshot) error {
	nodeCount := 0
	for _, n := range snap.Domain.Nodes {
		if n.ID != domain.RootID {
			nodeCount++
		}
	}
	_, err := m.db.ExecContext(ctx,
		"INSERT INTO snapshots (scope_id, node_count, edge_count, saved_at_unix) VALUES (?, ?, ?, ?)",
		snap.ScopeID, nodeCount, len(snap.Domain.Edges), snap.TimestampUnix,
	)
	if err != nil {
		return fmt.Errorf("persistence: recording snapshot history: %w", err)
	}
	return nil
}

// SnapshotHistoryEntry is one row of the mirror's save history.
type SnapshotHistoryEntry struct {
	ScopeID     string
	NodeCount   int
	EdgeCount   int
	SavedAtUnix int64
}

// History returns the most recent limit save events, newest first.
func (m *Mirror) History(ctx context.Context, limit int) ([]SnapshotHistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := m.db.QueryContext(ctx,
		"SELECT scope_id, node_count, edge_count, saved_at_unix FROM snapshots ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("persistence: querying snapshot history: %w", err)
	}
	defer rows.Close()

	var out []SnapshotHistoryEntry
	for rows.Next() {
		var e SnapshotHistoryEntry
		if err := rows.Scan(&e.ScopeID, &e.NodeCount, &e.EdgeCount, &e.SavedAtUnix); err != nil {
			return nil, fmt.Errorf("persistence: scanning snapshot history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying SQLite connection.
func (m *Mirror) Close() error {
	return m.db.Close()
}
