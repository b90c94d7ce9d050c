package persistence

import (
	"context"
	"testing"
	"time"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := NewMirror(":memory:")
	if err != nil {
		t.Fatalf("NewMirror: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMirror_RecordAndHistory(t *testing.T) {
	mirror := newTestMirror(t)
	g, vs := buildTestCanvas(t)
	snap := Capture(g, vs, "scope1", time.Unix(2000, 0))

	if err := mirror.Record(context.Background(), snap); err != nil {
		t.Fatalf("Record: %v", err)
	}

	history, err := mirror.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].ScopeID != "scope1" || history[0].NodeCount != 1 {
		t.Errorf("unexpected history entry: %+v", history[0])
	}
}

func TestMirror_HistoryOrdersNewestFirst(t *testing.T) {
	mirror := newTestMirror(t)
	g, vs := buildTestCanvas(t)

	first := Capture(g, vs, "first", time.Unix(1000, 0))
	second := Capture(g, vs, "second", time.Unix(2000, 0))
	if err := mirror.Record(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	if err := mirror.Record(context.Background(), second); err != nil {
		t.Fatal(err)
	}

	history, err := mirror.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].ScopeID != "second" {
		t.Errorf("expected newest-first ordering, got %+v", history)
	}
}
